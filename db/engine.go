package db

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/edix-io/Edix/core"
	"github.com/edix-io/Edix/export"
	"github.com/edix-io/Edix/notify"
	"github.com/edix-io/Edix/op"
	"github.com/edix-io/Edix/schema"
	"github.com/edix-io/Edix/st"
)

// Engine is the caller-facing surface of Edix: structure registration,
// validated CRUD, and export/import. An HTTP or UI layer sits on top of
// these operations; the engine itself knows nothing about transports.
type Engine struct {
	store       *st.Store
	registry    *schema.Registry
	broadcaster *notify.Broadcaster
	remote      *export.RemoteConfig
}

// NewEngine creates an engine over a store and registry. The broadcaster
// may be nil when no change feed is wanted.
func NewEngine(store *st.Store, registry *schema.Registry, broadcaster *notify.Broadcaster) *Engine {
	return &Engine{
		store:       store,
		registry:    registry,
		broadcaster: broadcaster,
	}
}

// SetRemote configures credentials for s3:// export destinations and
// import sources.
func (e *Engine) SetRemote(cfg *export.RemoteConfig) {
	e.remote = cfg
}

// RegisterStructure validates a schema document and provisions its
// backing table. Registering an identical schema again is a no-op.
func (e *Engine) RegisterStructure(name string, doc map[string]any) error {
	if _, err := e.registry.Register(name, doc); err != nil {
		return err
	}
	e.publish(notify.Event{Action: notify.ActionRegister, Structure: name})
	return nil
}

// Structures returns the registered structure names.
func (e *Engine) Structures() []string {
	return e.registry.Names()
}

// DeleteStructure removes a structure and its data table.
func (e *Engine) DeleteStructure(name string) error {
	return e.registry.Delete(name)
}

// ValidateAndInsert validates a record against the structure's schema and
// stores it, returning the assigned id.
func (e *Engine) ValidateAndInsert(name string, data map[string]any) (int64, error) {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return 0, err
	}
	if err := schema.Validate(data, structOp.Schema); err != nil {
		return 0, err
	}

	id, err := structOp.Insert(data)
	if err != nil {
		return 0, err
	}
	e.publish(notify.Event{Action: notify.ActionInsert, Structure: name, RecordID: id})
	return id, nil
}

// ValidateAndUpdate type-checks a partial update and applies it.
func (e *Engine) ValidateAndUpdate(name string, id int64, partial map[string]any) error {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return err
	}
	if err := schema.ValidatePartial(partial, structOp.Schema); err != nil {
		return err
	}

	if err := structOp.Update(id, partial); err != nil {
		return err
	}
	e.publish(notify.Event{Action: notify.ActionUpdate, Structure: name, RecordID: id})
	return nil
}

// DeleteRecord removes one record.
func (e *Engine) DeleteRecord(name string, id int64) error {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return err
	}

	if err := structOp.Delete(id); err != nil {
		return err
	}
	e.publish(notify.Event{Action: notify.ActionDelete, Structure: name, RecordID: id})
	return nil
}

// GetRecord returns one record by id.
func (e *Engine) GetRecord(name string, id int64) (core.Record, error) {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return nil, err
	}
	return structOp.Get(id)
}

// ListRecords returns a structure's records, newest modification first,
// optionally narrowed by equality filters on declared fields.
func (e *Engine) ListRecords(name string, filters map[string]any) ([]core.Record, error) {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return nil, err
	}
	return structOp.List(op.ListOptions{Filters: filters})
}

// CountRecords returns the number of records in a structure.
func (e *Engine) CountRecords(name string) (int, error) {
	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return 0, err
	}
	return structOp.Count()
}

// ExportStructure serializes all of a structure's records into the named
// format.
func (e *Engine) ExportStructure(name, format string) ([]byte, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	structOp, err := op.GetStructure(name, e.registry, e.store)
	if err != nil {
		return nil, err
	}
	records, err := structOp.List(op.ListOptions{})
	if err != nil {
		return nil, err
	}
	return export.Marshal(records, f)
}

// ExportAll serializes every structure's records into the named format.
// Each record carries its _structure name, so the payload round-trips
// through ImportRecords.
func (e *Engine) ExportAll(format string) ([]byte, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	var records []core.Record
	for _, name := range e.registry.Names() {
		structOp, err := op.GetStructure(name, e.registry, e.store)
		if err != nil {
			return nil, err
		}
		list, err := structOp.List(op.ListOptions{})
		if err != nil {
			return nil, err
		}
		for _, record := range list {
			record["_structure"] = name
			records = append(records, record)
		}
	}
	return export.Marshal(records, f)
}

// ExportStructureTo writes an export payload to a destination: a local
// path, file:// URL or s3:// object.
func (e *Engine) ExportStructureTo(name, format, dest string) error {
	payload, err := e.ExportStructure(name, format)
	if err != nil {
		return err
	}

	writer, err := export.OpenWriter(dest, e.remote)
	if err != nil {
		return err
	}
	if _, err := writer.Write(payload); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// ImportRecords decodes a payload and inserts every record into its
// target structure (the per-record _structure key, or "default").
// Auto-assigned columns are stripped and flat string values are coerced
// to the declared field types, so CSV round-trips cleanly. Returns the
// number of records imported before any failure.
func (e *Engine) ImportRecords(format string, payload []byte) (int, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return 0, err
	}

	items, err := export.Unmarshal(f, payload)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range items {
		structOp, err := op.GetStructure(item.Structure, e.registry, e.store)
		if err != nil {
			return count, err
		}

		prepareImport(structOp.Schema, item.Data)
		id, err := structOp.Insert(item.Data)
		if err != nil {
			return count, err
		}

		count++
		e.publish(notify.Event{Action: notify.ActionInsert, Structure: item.Structure, RecordID: id})
	}
	return count, nil
}

// ImportRecordsFrom reads a payload from a source location (local path,
// file://, http(s):// or s3://) and imports it.
func (e *Engine) ImportRecordsFrom(format, src string) (int, error) {
	reader, err := export.OpenReader(src, e.remote)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	return e.ImportRecords(format, payload)
}

func (e *Engine) publish(event notify.Event) {
	if e.broadcaster != nil {
		e.broadcaster.Publish(event)
	}
}

// prepareImport readies a decoded record for insertion: auto-assigned
// columns go (ids are reassigned on import), a stringified _meta blob is
// decoded, and flat string values are coerced to their declared types.
func prepareImport(s *core.Schema, data map[string]any) {
	delete(data, "id")
	delete(data, "created_at")
	delete(data, "updated_at")

	if text, ok := data["_meta"].(string); ok {
		meta := map[string]any{}
		if text != "" && json.Unmarshal([]byte(text), &meta) == nil {
			data["_meta"] = meta
		} else {
			delete(data, "_meta")
		}
	}

	for field, spec := range s.Fields {
		raw, ok := data[field].(string)
		if !ok {
			continue
		}
		if raw == "" && spec.Type != core.StringField {
			// An empty cell in a flat format means absent.
			delete(data, field)
			continue
		}

		switch spec.Type {
		case core.IntegerField:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				data[field] = n
			}
		case core.NumberField:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				data[field] = f
			}
		case core.BooleanField:
			switch strings.ToLower(raw) {
			case "1", "true", "t", "yes":
				data[field] = true
			case "0", "false", "f", "no":
				data[field] = false
			}
		case core.ArrayField, core.ObjectField:
			var decoded any
			if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
				data[field] = decoded
			}
		}
	}
}
