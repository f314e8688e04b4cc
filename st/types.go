package st

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/edix-io/Edix/core"
)

// sqlType maps a field's declared type and constraints to a storage column
// type. Pure function. Only MaxLength narrows the physical type; every
// other constraint is enforced by the validator, never at the schema level.
func sqlType(spec core.FieldSpec) string {
	switch spec.Type {
	case core.StringField:
		if spec.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", spec.MaxLength)
		}
		return "TEXT"
	case core.IntegerField:
		return "BIGINT"
	case core.NumberField:
		return "DOUBLE"
	case core.BooleanField:
		// 0 or 1
		return "TINYINT"
	case core.ArrayField, core.ObjectField:
		return "TEXT"
	default:
		// Unrecognized types fall back to text. Unreachable for schemas
		// that passed meta-validation.
		return "TEXT"
	}
}

// defaultLiteral renders a declared default value as a SQL literal for
// embedding in column DDL. Returns false for values that cannot be
// rendered.
func defaultLiteral(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "NULL", true
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		// Composite defaults are stored as their JSON encoding.
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return "'" + strings.ReplaceAll(string(encoded), "'", "''") + "'", true
	}
}
