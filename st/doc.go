// Package st provides the storage layer for Edix.
//
// A Store wraps a single DuckDB connection (in-memory or file-backed) and
// owns everything that touches physical storage: the structure catalog,
// the type mapper, the table provisioner and raw statement execution.
//
// # Stores
//
//	store, err := st.NewMemoryStore()          // in-memory engine
//	store, err := st.NewFileStore("edix.db")   // file-backed engine
//	defer store.Close()
//
// # Provisioning
//
// Provision translates a core.Schema into DDL and records the mapping in
// the catalog:
//
//	table, err := store.Provision(&core.Schema{
//	    Name: "items",
//	    Fields: map[string]core.FieldSpec{
//	        "title": {Type: core.StringField},
//	        "count": {Type: core.IntegerField, Index: true},
//	    },
//	    Required: []string{"title"},
//	})
//	// table == "edix_data_items"
//
// Every provisioned table carries an auto-increment "id", one column per
// field, "created_at"/"updated_at" timestamps and a "_meta" JSON column.
// Provisioning is idempotent: table, sequence and index creation all use
// IF NOT EXISTS.
//
// # Identifier safety
//
// Structure and field names pass through SanitizeName before they are ever
// spliced into SQL: lower-cased, '-' and spaces mapped to '_', everything
// else allow-listed against [a-z0-9_]. Names that fail the allow-list are
// rejected with core.ErrSchemaInvalid instead of being patched up. Values
// never appear in SQL text; they are always bound as parameters.
package st
