package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/edix-io/Edix/core"
)

// CheckSchema confirms a schema document is structurally valid before it
// is handed to the provisioner: the top-level type must be "object" with a
// properties map, every property must declare a recognized type, and
// required/index entries must name declared properties. Runs before any
// DDL so an invalid schema never reaches the storage engine.
func CheckSchema(doc map[string]any) error {
	typeName, ok := doc["type"].(string)
	if !ok {
		return fmt.Errorf("%w: missing top-level type", core.ErrSchemaInvalid)
	}
	if typeName != "object" {
		return fmt.Errorf("%w: top-level type must be object, got %q", core.ErrSchemaInvalid, typeName)
	}

	properties, ok := doc["properties"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: missing properties map", core.ErrSchemaInvalid)
	}

	for field, raw := range properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: property %q is not an object", core.ErrSchemaInvalid, field)
		}
		name, _ := prop["type"].(string)
		if _, known := core.ParseFieldType(name); !known {
			return fmt.Errorf("%w: property %q has unknown type %q", core.ErrSchemaInvalid, field, name)
		}
	}

	if raw, ok := doc["required"]; ok {
		entries, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%w: required is not a list", core.ErrSchemaInvalid)
		}
		for _, entry := range entries {
			field, ok := entry.(string)
			if !ok {
				return fmt.Errorf("%w: required entry is not a string", core.ErrSchemaInvalid)
			}
			if _, declared := properties[field]; !declared {
				return fmt.Errorf("%w: required field %q is not declared", core.ErrSchemaInvalid, field)
			}
		}
	}

	if raw, ok := doc["indexes"]; ok {
		entries, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%w: indexes is not a list", core.ErrSchemaInvalid)
		}
		for _, entry := range entries {
			fields, ok := entry.([]any)
			if !ok {
				return fmt.Errorf("%w: index entry is not a list", core.ErrSchemaInvalid)
			}
			for _, f := range fields {
				field, ok := f.(string)
				if !ok {
					return fmt.Errorf("%w: index column is not a string", core.ErrSchemaInvalid)
				}
				if _, declared := properties[field]; !declared {
					return fmt.Errorf("%w: index column %q is not declared", core.ErrSchemaInvalid, field)
				}
			}
		}
	}

	return nil
}

// Validate checks a candidate record against a schema: every required
// field must be present and non-null, and every present declared field
// must match its declared type. Fields not declared in the schema pass
// through untouched (open-world policy). Returns a *core.ValidationError
// carrying one message per failure.
func Validate(data map[string]any, schema *core.Schema) error {
	var messages []string

	for _, field := range schema.Required {
		value, present := data[field]
		if !present {
			messages = append(messages, fmt.Sprintf("required field %q is missing", field))
		} else if value == nil {
			messages = append(messages, fmt.Sprintf("required field %q is null", field))
		}
	}

	for _, field := range schema.FieldNames() {
		value, present := data[field]
		if !present || value == nil {
			continue
		}
		spec := schema.Fields[field]
		if msg := checkType(field, value, spec.Type); msg != "" {
			messages = append(messages, msg)
		}
	}

	if len(messages) > 0 {
		return &core.ValidationError{Messages: messages}
	}
	return nil
}

// ValidatePartial checks a partial update: type checks apply to every
// present declared field, and a required field may be set but never
// nulled. Required fields absent from the partial are untouched by the
// update and therefore not demanded.
func ValidatePartial(data map[string]any, schema *core.Schema) error {
	var messages []string

	for _, field := range schema.Required {
		if value, present := data[field]; present && value == nil {
			messages = append(messages, fmt.Sprintf("required field %q cannot be null", field))
		}
	}

	for _, field := range schema.FieldNames() {
		value, present := data[field]
		if !present || value == nil {
			continue
		}
		if msg := checkType(field, value, schema.Fields[field].Type); msg != "" {
			messages = append(messages, msg)
		}
	}

	if len(messages) > 0 {
		return &core.ValidationError{Messages: messages}
	}
	return nil
}

func checkType(field string, value any, fieldType core.FieldType) string {
	switch fieldType {
	case core.StringField:
		if _, ok := value.(string); !ok {
			return typeMismatch(field, "string", value)
		}
	case core.IntegerField:
		if !isInteger(value) {
			return typeMismatch(field, "integer", value)
		}
	case core.NumberField:
		if !isNumber(value) {
			return typeMismatch(field, "number", value)
		}
	case core.BooleanField:
		if _, ok := value.(bool); !ok {
			return typeMismatch(field, "boolean", value)
		}
	case core.ArrayField:
		if _, ok := value.([]any); !ok {
			return typeMismatch(field, "array", value)
		}
	case core.ObjectField:
		if _, ok := value.(map[string]any); !ok {
			return typeMismatch(field, "object", value)
		}
	case core.NullField:
		return typeMismatch(field, "null", value)
	}
	return ""
}

func typeMismatch(field, want string, value any) string {
	return fmt.Sprintf("field %q: expected %s, got %T", field, want, value)
}

// isInteger accepts native integer kinds plus JSON-decoded numbers that
// carry an integral value. "integer" is strict: 4.2 is rejected.
func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return v == math.Trunc(v)
	case float32:
		return float64(v) == math.Trunc(float64(v))
	case json.Number:
		_, err := v.Int64()
		return err == nil
	default:
		return false
	}
}

// isNumber accepts both integer and floating instances.
func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	default:
		return false
	}
}
