package st

import (
	"fmt"
	"strings"

	"github.com/edix-io/Edix/core"
)

const (
	maxIdentLen = 63
	tablePrefix = "edix_data_"
)

// SanitizeName derives a safe SQL identifier from a user-supplied name:
// lower-cased, with '-' and spaces mapped to '_'. Anything that still
// contains a disallowed character after that is rejected rather than
// patched up, so a bad name can never reach DDL assembly.
func SanitizeName(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, s)

	if s == "" {
		return "", fmt.Errorf("%w: empty identifier", core.ErrSchemaInvalid)
	}
	if len(s) > maxIdentLen {
		return "", fmt.Errorf("%w: identifier %q exceeds %d bytes", core.ErrSchemaInvalid, s, maxIdentLen)
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return "", fmt.Errorf("%w: identifier %q starts with a digit", core.ErrSchemaInvalid, s)
			}
		default:
			return "", fmt.Errorf("%w: identifier %q contains disallowed character %q", core.ErrSchemaInvalid, s, r)
		}
	}
	return s, nil
}

// TableName derives the physical table name for a structure.
func TableName(structure string) (string, error) {
	s, err := SanitizeName(structure)
	if err != nil {
		return "", err
	}
	if len(tablePrefix)+len(s) > maxIdentLen {
		return "", fmt.Errorf("%w: structure name %q too long", core.ErrSchemaInvalid, structure)
	}
	return tablePrefix + s, nil
}

// quoteIdent quotes an already-sanitized identifier for use in SQL.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
