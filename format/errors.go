// ABOUTME: Error types returned by the formatters.
// ABOUTME: MalformedTableError carries the offending row index and matches ErrMalformedTable.
package format

import (
	"errors"
	"fmt"
)

// ErrMalformedTable matches any *MalformedTableError via errors.Is.
var ErrMalformedTable = errors.New("malformed table")

// MalformedTableError reports table input that is not a sequence of rows of cells.
// Row is -1 when the table value itself is not a sequence.
type MalformedTableError struct {
	Row  int
	Kind string // kind of the offending value, e.g. "string" or "int"
}

func (e *MalformedTableError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("malformed table: rows must be a slice or array, got %s", e.Kind)
	}
	return fmt.Sprintf("malformed table: row %d must be a slice or array of cells, got %s", e.Row, e.Kind)
}

func (e *MalformedTableError) Is(target error) bool {
	return target == ErrMalformedTable
}
