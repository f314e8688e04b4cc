// Package op provides typed record operations for Edix structures.
//
// StructureOp is the only reader and writer of row data. It resolves the
// physical table through the schema registry, so callers never touch
// table names directly:
//
//	structOp, err := op.GetStructure("items", registry, store)
//
//	id, err := structOp.Insert(map[string]any{"title": "Test Item", "count": 42})
//	err = structOp.Update(id, map[string]any{"count": 43})
//	record, err := structOp.Get(id)
//	records, err := structOp.List(op.ListOptions{
//	    Filters: map[string]any{"count": 43},
//	    Limit:   50,
//	})
//	err = structOp.Delete(id)
//
// Composite (array/object) values are JSON-encoded on write and decoded
// back into structured values on read. Fields the schema does not declare
// ride along in the record's _meta blob. Update and Delete check the
// affected-row count and fail with core.ErrRecordNotFound when the target
// row is absent.
package op
