package op

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edix-io/Edix/core"
	"github.com/edix-io/Edix/schema"
	"github.com/edix-io/Edix/st"
)

// StructureOp performs typed CRUD against one structure's provisioned
// table. Every operation resolves the table through the registry-held
// schema, so an unknown structure name fails with ErrStructureNotFound
// before any SQL runs.
type StructureOp struct {
	Schema *core.Schema
	Store  *st.Store

	table   string
	columns map[string]string // sanitized column -> declared field
}

// ListOptions narrows a List call. The zero value returns everything.
type ListOptions struct {
	// Filters are equality conditions, allow-listed against declared
	// fields plus "id".
	Filters map[string]any

	// Limit and Offset page the result; zero means no limit/offset.
	Limit  int
	Offset int
}

// GetStructure resolves a structure name into an accessor.
func GetStructure(name string, registry *schema.Registry, store *st.Store) (*StructureOp, error) {
	s, err := registry.Get(name)
	if err != nil {
		return nil, err
	}

	table, err := st.TableName(s.Name)
	if err != nil {
		return nil, err
	}

	columns := make(map[string]string, len(s.Fields))
	for _, field := range s.FieldNames() {
		column, err := st.SanitizeName(field)
		if err != nil {
			return nil, err
		}
		columns[column] = field
	}

	return &StructureOp{
		Schema:  s,
		Store:   store,
		table:   table,
		columns: columns,
	}, nil
}

// Insert stores one record and returns the assigned id. Declared composite
// values are JSON-encoded before storage; fields the schema does not
// declare are carried in the _meta column so nothing the caller sends is
// dropped.
func (op *StructureOp) Insert(data map[string]any) (int64, error) {
	var columns []string
	var params []any

	meta := map[string]any{}
	if m, ok := data["_meta"].(map[string]any); ok {
		for k, v := range m {
			meta[k] = v
		}
	}

	for _, field := range op.Schema.FieldNames() {
		value, present := data[field]
		if !present {
			continue
		}
		column, err := st.SanitizeName(field)
		if err != nil {
			return 0, err
		}
		encoded, err := encodeValue(op.Schema.Fields[field], value)
		if err != nil {
			return 0, err
		}
		columns = append(columns, column)
		params = append(params, encoded)
	}

	for key, value := range data {
		if reservedKey(key) {
			continue
		}
		if _, declared := op.Schema.Fields[key]; !declared {
			meta[key] = value
		}
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	columns = append(columns, "_meta", "created_at", "updated_at")
	params = append(params, string(metaJSON), now, now)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = `"` + column + `"`
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s) RETURNING "id"`,
		op.table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	var id int64
	row, err := op.Store.QueryRow(insertSQL, params...)
	if err != nil {
		return 0, err
	}
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies a field-level partial update: only columns present in the
// partial data change, id is never updatable, and updated_at is always
// refreshed. Returns ErrRecordNotFound when no row matches; the affected
// row count is checked rather than assumed.
func (op *StructureOp) Update(id int64, partial map[string]any) error {
	var sets []string
	var params []any

	meta := map[string]any{}
	metaTouched := false
	if m, ok := partial["_meta"].(map[string]any); ok {
		for k, v := range m {
			meta[k] = v
		}
		metaTouched = true
	}

	for _, field := range op.Schema.FieldNames() {
		value, present := partial[field]
		if !present {
			continue
		}
		column, err := st.SanitizeName(field)
		if err != nil {
			return err
		}
		encoded, err := encodeValue(op.Schema.Fields[field], value)
		if err != nil {
			return err
		}
		sets = append(sets, `"`+column+`" = ?`)
		params = append(params, encoded)
	}

	for key, value := range partial {
		if reservedKey(key) {
			continue
		}
		if _, declared := op.Schema.Fields[key]; !declared {
			meta[key] = value
			metaTouched = true
		}
	}

	if metaTouched {
		current, err := op.currentMeta(id)
		if err != nil {
			return err
		}
		for k, v := range meta {
			current[k] = v
		}
		metaJSON, err := json.Marshal(current)
		if err != nil {
			return err
		}
		sets = append(sets, `"_meta" = ?`)
		params = append(params, string(metaJSON))
	}

	sets = append(sets, `"updated_at" = ?`)
	params = append(params, time.Now().UTC())
	params = append(params, id)

	updateSQL := fmt.Sprintf(`UPDATE "%s" SET %s WHERE "id" = ?`,
		op.table, strings.Join(sets, ", "))
	result, err := op.Store.Exec(updateSQL, params...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s id %d", core.ErrRecordNotFound, op.Schema.Name, id)
	}
	return nil
}

// Delete removes one record, failing with ErrRecordNotFound when no row
// matches.
func (op *StructureOp) Delete(id int64) error {
	result, err := op.Store.Exec(fmt.Sprintf(`DELETE FROM "%s" WHERE "id" = ?`, op.table), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s id %d", core.ErrRecordNotFound, op.Schema.Name, id)
	}
	return nil
}

// Get returns one record by id.
func (op *StructureOp) Get(id int64) (core.Record, error) {
	records, err := op.List(ListOptions{Filters: map[string]any{"id": id}})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s id %d", core.ErrRecordNotFound, op.Schema.Name, id)
	}
	return records[0], nil
}

// List returns records ordered by last-modified time descending. The _meta
// column and any JSON-encoded composite columns are parsed back into
// structured values before returning.
func (op *StructureOp) List(opts ListOptions) ([]core.Record, error) {
	query := fmt.Sprintf(`SELECT * FROM "%s"`, op.table)
	var params []any

	if len(opts.Filters) > 0 {
		conditions := make([]string, 0, len(opts.Filters))
		for _, field := range filterFields(opts.Filters) {
			value := opts.Filters[field]
			if field == "id" {
				conditions = append(conditions, `"id" = ?`)
				params = append(params, value)
				continue
			}
			spec, declared := op.Schema.Fields[field]
			if !declared {
				return nil, fmt.Errorf("cannot filter on undeclared field %q", field)
			}
			column, err := st.SanitizeName(field)
			if err != nil {
				return nil, err
			}
			encoded, err := encodeValue(spec, value)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, `"`+column+`" = ?`)
			params = append(params, encoded)
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += ` ORDER BY "updated_at" DESC, "id" DESC`

	if opts.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		params = append(params, opts.Offset)
	}

	rows, err := op.Store.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []core.Record
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record, err := op.decodeRow(columns, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count returns the number of records in the structure's table.
func (op *StructureOp) Count() (int, error) {
	row, err := op.Store.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, op.table))
	if err != nil {
		return 0, err
	}
	var count int
	err = row.Scan(&count)
	return count, err
}

func (op *StructureOp) currentMeta(id int64) (map[string]any, error) {
	row, err := op.Store.QueryRow(fmt.Sprintf(`SELECT "_meta" FROM "%s" WHERE "id" = ?`, op.table), id)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := row.Scan(&raw); err != nil {
		// Missing row surfaces through the update's affected-row check;
		// start from an empty blob here.
		return map[string]any{}, nil
	}

	meta := map[string]any{}
	if text := asString(raw); text != "" {
		if err := json.Unmarshal([]byte(text), &meta); err != nil {
			return nil, fmt.Errorf("failed to decode _meta for %s id %d: %w", op.Schema.Name, id, err)
		}
	}
	return meta, nil
}

func (op *StructureOp) decodeRow(columns []string, raw []any) (core.Record, error) {
	record := make(core.Record, len(columns))

	for i, column := range columns {
		value := raw[i]
		switch column {
		case "id":
			record["id"] = toInt64(value)
		case "created_at", "updated_at":
			record[column] = value
		case "_meta":
			meta := map[string]any{}
			if text := asString(value); text != "" {
				if err := json.Unmarshal([]byte(text), &meta); err != nil {
					return nil, fmt.Errorf("failed to decode _meta: %w", err)
				}
			}
			record["_meta"] = meta
		default:
			field, declared := op.columns[column]
			if !declared {
				record[column] = value
				continue
			}
			decoded, err := decodeValue(op.Schema.Fields[field], value)
			if err != nil {
				return nil, fmt.Errorf("failed to decode field %q: %w", field, err)
			}
			record[field] = decoded
		}
	}
	return record, nil
}

// encodeValue converts a runtime value into its storage representation.
func encodeValue(spec core.FieldSpec, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch spec.Type {
	case core.BooleanField:
		if b, ok := value.(bool); ok {
			if b {
				return int8(1), nil
			}
			return int8(0), nil
		}
		return value, nil
	case core.ArrayField, core.ObjectField:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return string(encoded), nil
	case core.IntegerField:
		if n, ok := toInt64Ok(value); ok {
			return n, nil
		}
		return value, nil
	case core.NumberField:
		if f, ok := toFloat64Ok(value); ok {
			return f, nil
		}
		return value, nil
	default:
		return value, nil
	}
}

// decodeValue converts a stored value back into its runtime shape.
func decodeValue(spec core.FieldSpec, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch spec.Type {
	case core.BooleanField:
		return toInt64(value) != 0, nil
	case core.ArrayField, core.ObjectField:
		text := asString(value)
		if text == "" {
			return nil, nil
		}
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	case core.IntegerField:
		return toInt64(value), nil
	case core.NumberField:
		if f, ok := toFloat64Ok(value); ok {
			return f, nil
		}
		return value, nil
	case core.StringField:
		return asString(value), nil
	default:
		return value, nil
	}
}

// reservedKey reports whether a data key names a system column rather
// than a user field. These never ride along in _meta.
func reservedKey(key string) bool {
	switch key {
	case "id", "_meta", "created_at", "updated_at":
		return true
	default:
		return false
	}
}

func filterFields(filters map[string]any) []string {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	// Stable condition order keeps generated SQL deterministic.
	sort.Strings(fields)
	return fields
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(value any) int64 {
	n, _ := toInt64Ok(value)
	return n
}

func toInt64Ok(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

func toFloat64Ok(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		if n, ok := toInt64Ok(value); ok {
			return float64(n), true
		}
		return 0, false
	}
}
