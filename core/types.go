package core

import "sort"

type FieldType int

const (
	StringField FieldType = iota
	IntegerField
	NumberField
	BooleanField
	ArrayField
	ObjectField
	NullField
)

// ParseFieldType maps a declared schema type name to a FieldType.
// The second return value reports whether the name was recognized.
func ParseFieldType(name string) (FieldType, bool) {
	switch name {
	case "string":
		return StringField, true
	case "integer":
		return IntegerField, true
	case "number":
		return NumberField, true
	case "boolean":
		return BooleanField, true
	case "array":
		return ArrayField, true
	case "object":
		return ObjectField, true
	case "null":
		return NullField, true
	default:
		return StringField, false
	}
}

func (t FieldType) String() string {
	switch t {
	case StringField:
		return "string"
	case IntegerField:
		return "integer"
	case NumberField:
		return "number"
	case BooleanField:
		return "boolean"
	case ArrayField:
		return "array"
	case ObjectField:
		return "object"
	case NullField:
		return "null"
	default:
		return "unknown"
	}
}

// Composite reports whether values of this type are stored as JSON text.
func (t FieldType) Composite() bool {
	return t == ArrayField || t == ObjectField
}

// FieldSpec is the declared type and constraints for one structure field.
type FieldSpec struct {
	Type      FieldType `json:"type"`
	MaxLength int       `json:"maxLength,omitempty"`
	Default   any       `json:"default,omitempty"`
	Index     bool      `json:"index,omitempty"`
}

// Schema is a named field-schema definition for one structure.
type Schema struct {
	Name     string               `json:"name"`
	Fields   map[string]FieldSpec `json:"fields"`
	Required []string             `json:"required,omitempty"`
	Indexes  [][]string           `json:"indexes,omitempty"`
}

// FieldNames returns the declared field names in sorted order. Generated
// DDL and DML always walk fields in this order so provisioning stays
// deterministic.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether the named field is in the required set.
func (s *Schema) IsRequired(field string) bool {
	for _, name := range s.Required {
		if name == field {
			return true
		}
	}
	return false
}

// Record is one row of structure data. Values are typed: int64 for
// integers, float64 for numbers, bool for booleans, string for strings,
// time.Time for timestamps, and decoded []any / map[string]any for
// composite fields.
type Record map[string]any
