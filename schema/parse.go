package schema

import (
	"encoding/json"
	"fmt"

	"github.com/edix-io/Edix/core"
)

// ParseDocument converts a JSON-Schema-like document into a core.Schema.
// The document is expected to have passed CheckSchema first.
func ParseDocument(name string, doc map[string]any) (*core.Schema, error) {
	properties, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing properties map", core.ErrSchemaInvalid)
	}

	schema := &core.Schema{
		Name:   name,
		Fields: make(map[string]core.FieldSpec, len(properties)),
	}

	for field, raw := range properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: property %q is not an object", core.ErrSchemaInvalid, field)
		}

		typeName, _ := prop["type"].(string)
		fieldType, known := core.ParseFieldType(typeName)
		if !known {
			return nil, fmt.Errorf("%w: property %q has unknown type %q", core.ErrSchemaInvalid, field, typeName)
		}

		spec := core.FieldSpec{Type: fieldType}
		if length, ok := asInt(prop["maxLength"]); ok && length > 0 {
			spec.MaxLength = length
		}
		if value, ok := prop["default"]; ok {
			spec.Default = value
		}
		if index, ok := prop["index"].(bool); ok {
			spec.Index = index
		}
		schema.Fields[field] = spec
	}

	if raw, ok := doc["required"].([]any); ok {
		for _, entry := range raw {
			field, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%w: required entry is not a string", core.ErrSchemaInvalid)
			}
			schema.Required = append(schema.Required, field)
		}
	}

	if raw, ok := doc["indexes"].([]any); ok {
		for _, entry := range raw {
			fields, ok := entry.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: index entry is not a list", core.ErrSchemaInvalid)
			}
			index := make([]string, 0, len(fields))
			for _, f := range fields {
				field, ok := f.(string)
				if !ok {
					return nil, fmt.Errorf("%w: index column is not a string", core.ErrSchemaInvalid)
				}
				index = append(index, field)
			}
			schema.Indexes = append(schema.Indexes, index)
		}
	}

	return schema, nil
}

// asInt accepts the numeric shapes a decoded JSON document can carry.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
