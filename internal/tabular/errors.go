package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrMalformedHeader is returned when the metadata line or the column
	// title line cannot describe the file.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedRow is returned when a data row cannot be placed into columns.
	ErrMalformedRow = errors.New("malformed row")

	// ErrUnknownColumn is returned when a named column is not in the dataset.
	ErrUnknownColumn = errors.New("unknown column")
)

// RowError carries the 1-based line number of a rejected row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
