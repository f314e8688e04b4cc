package core

import (
	"errors"
	"strings"
)

var (
	// ErrSchemaInvalid indicates a malformed schema document or an
	// unsupported declared type, caught before any DDL is executed.
	ErrSchemaInvalid = errors.New("schema invalid")

	// ErrStructureNotFound indicates an unknown structure name.
	ErrStructureNotFound = errors.New("structure not found")

	// ErrRecordNotFound indicates an update/delete target row is absent.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnsupportedFormat indicates an export/import format outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ValidationError carries one message per failed field check.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
