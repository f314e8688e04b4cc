package st

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/edix-io/Edix/core"
)

// Provision translates a schema into physical storage: a data table with
// an auto-increment id, one column per declared field, created_at /
// updated_at timestamps and a _meta JSON column, plus any requested
// indexes. Both table and index creation use IF NOT EXISTS so
// re-provisioning an existing structure never fails or duplicates
// anything. The schema document is persisted to the catalog so any
// component can later resolve name -> schema and name -> table.
//
// Returns the physical table name.
func (s *Store) Provision(schema *core.Schema) (string, error) {
	if err := s.ensureInitialized(); err != nil {
		return "", err
	}

	table, err := TableName(schema.Name)
	if err != nil {
		return "", err
	}

	// Two structures must never share a sanitized table name.
	var holder string
	err = s.db.QueryRow(
		`SELECT name FROM edix_structures WHERE table_name = ? AND name <> ?`,
		table, schema.Name,
	).Scan(&holder)
	if err == nil {
		return "", fmt.Errorf("%w: table name %q already provisioned for structure %q",
			core.ErrSchemaInvalid, table, holder)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	seq := table + "_id_seq"
	columns := []string{
		fmt.Sprintf(`"id" BIGINT PRIMARY KEY DEFAULT nextval('%s')`, seq),
	}

	for _, field := range schema.FieldNames() {
		column, err := SanitizeName(field)
		if err != nil {
			return "", err
		}
		spec := schema.Fields[field]

		def := quoteIdent(column) + " " + sqlType(spec)
		if schema.IsRequired(field) {
			def += " NOT NULL"
		}
		if spec.Default != nil {
			if literal, ok := defaultLiteral(spec.Default); ok {
				def += " DEFAULT " + literal
			}
		}
		columns = append(columns, def)
	}

	columns = append(columns,
		`"created_at" TIMESTAMP NOT NULL`,
		`"updated_at" TIMESTAMP NOT NULL`,
		`"_meta" TEXT`,
	)

	if _, err := s.db.Exec(fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s`, quoteIdent(seq))); err != nil {
		return "", &ProvisionError{Table: table, Err: err}
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(table), strings.Join(columns, ", "))
	if _, err := s.db.Exec(createSQL); err != nil {
		return "", &ProvisionError{Table: table, Err: err}
	}

	for _, fields := range indexEntries(schema) {
		if err := s.createIndex(table, fields); err != nil {
			return "", err
		}
	}

	definition, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	if err := s.SaveStructure(schema.Name, table, definition); err != nil {
		return "", err
	}

	return table, nil
}

// indexEntries collects the schema's index requests: explicit multi-column
// entries plus single-column entries for every field flagged Index. Both
// declaration forms are supported.
func indexEntries(schema *core.Schema) [][]string {
	entries := make([][]string, 0, len(schema.Indexes))
	entries = append(entries, schema.Indexes...)

	for _, field := range schema.FieldNames() {
		if schema.Fields[field].Index {
			entries = append(entries, []string{field})
		}
	}
	return entries
}

// createIndex creates one index named deterministically from table and
// columns.
func (s *Store) createIndex(table string, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, len(fields))
	for i, field := range fields {
		column, err := SanitizeName(field)
		if err != nil {
			return err
		}
		columns[i] = column
	}

	// Truncating here could collapse two distinct column sets onto one
	// index name, and IF NOT EXISTS would then skip the second index.
	name := "idx_" + table + "_" + strings.Join(columns, "_")
	if len(name) > maxIdentLen {
		return fmt.Errorf("%w: index name %q exceeds %d bytes", core.ErrSchemaInvalid, name, maxIdentLen)
	}

	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = quoteIdent(column)
	}

	indexSQL := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		quoteIdent(name), quoteIdent(table), strings.Join(quoted, ", "))
	if _, err := s.db.Exec(indexSQL); err != nil {
		return &ProvisionError{Table: table, Err: err}
	}
	return nil
}
