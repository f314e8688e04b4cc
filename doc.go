// Package Edix provides a schema-driven CRUD engine over a relational
// store.
//
// Users define JSON-Schema-like "structures"; Edix provisions a physical
// table for each one (columns, types, indexes) and performs validated,
// typed CRUD against that layout. Records can be exported to and imported
// from JSON, YAML, CSV and XML.
//
// # Quick Start
//
// Create an in-memory instance:
//
//	store, _ := st.NewMemoryStore()
//	defer store.Close()
//	instance, _ := Edix.Open(store)
//	engine := instance.Engine()
//
//	engine.RegisterStructure("items", map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	        "title": map[string]any{"type": "string", "maxLength": 200},
//	        "count": map[string]any{"type": "integer", "index": true},
//	        "tags":  map[string]any{"type": "array"},
//	    },
//	    "required": []any{"title"},
//	})
//
//	id, _ := engine.ValidateAndInsert("items", map[string]any{
//	    "title": "Test Item",
//	    "count": 42,
//	    "tags":  []any{"a", "b"},
//	})
//	records, _ := engine.ListRecords("items", nil)
//
// # Architecture
//
// The layering is:
//
//	Engine (db/)          caller-facing operations
//	     ↓
//	Accessors (op/)       typed record CRUD
//	     ↓
//	Registry (schema/)    schema cache + validators
//	     ↓
//	Store (st/)           DuckDB: DDL, DML, structure catalog
//
// Schema edits never migrate rows already in a provisioned table;
// reconciling existing data after an edit is explicitly unsupported.
package Edix
