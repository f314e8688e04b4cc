// Package core provides core types used throughout Edix.
//
// The package defines fundamental types like Schema, FieldSpec, Record,
// and the shared error taxonomy.
//
// # Field Types
//
// Supported field types (JSON-Schema-like names):
//   - StringField: text values ("string")
//   - IntegerField: 64-bit integers ("integer")
//   - NumberField: double-precision reals ("number")
//   - BooleanField: booleans, stored 0/1 ("boolean")
//   - ArrayField / ObjectField: composite values, stored as JSON text
//   - NullField: always-null placeholder ("null")
//
// # Schema Definition
//
//	schema := core.Schema{
//	    Name: "items",
//	    Fields: map[string]core.FieldSpec{
//	        "title": {Type: core.StringField, MaxLength: 200},
//	        "count": {Type: core.IntegerField, Index: true},
//	        "tags":  {Type: core.ArrayField},
//	    },
//	    Required: []string{"title"},
//	}
//
// # Errors
//
// Core operations report failures through the sentinel errors
// ErrSchemaInvalid, ErrStructureNotFound, ErrRecordNotFound and
// ErrUnsupportedFormat, plus the ValidationError type which carries one
// message per failed field check. Use errors.Is / errors.As to classify.
package core
