// Package db provides the Edix engine: the caller-facing operations a
// transport layer builds on.
//
// # Engine Usage
//
//	engine := db.NewEngine(store, registry, broadcaster)
//
//	err := engine.RegisterStructure("items", map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	        "title": map[string]any{"type": "string"},
//	        "count": map[string]any{"type": "integer"},
//	    },
//	    "required": []any{"title"},
//	})
//
//	id, err := engine.ValidateAndInsert("items", map[string]any{
//	    "title": "Test Item",
//	    "count": 42,
//	})
//	records, err := engine.ListRecords("items", nil)
//
// # Export and Import
//
// ExportStructure serializes a structure's records to JSON, YAML, CSV or
// XML; ExportAll does the same across every structure, tagging records
// with their _structure name. ImportRecords goes the other way (XML
// excepted), routing each record by its _structure key. ExportStructureTo
// and ImportRecordsFrom accept local paths, file:// and s3:// locations,
// plus http(s):// sources for import.
//
// # Errors
//
// Operations surface the core taxonomy: ErrSchemaInvalid before any DDL,
// ValidationError on bad data, ErrStructureNotFound for unknown names,
// ErrRecordNotFound when an update or delete matches no row, and
// ErrUnsupportedFormat from the export/import paths.
package db
