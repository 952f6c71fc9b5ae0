package models

import (
	"errors"
	"fmt"
)

// MissingCell replaces empty cells during cleaning.
const MissingCell = "N/A"

var (
	// ErrInvalidTable is returned when a table has no header row.
	ErrInvalidTable = errors.New("invalid table: missing header row")
	// ErrMissingColumn matches every *MissingColumnError via errors.Is.
	ErrMissingColumn = errors.New("missing column")
)

// MissingColumnError names the header column that could not be found.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Row is one spreadsheet line. It may be shorter than the header.
type Row []string

// Cell returns the value at index i and whether the row is long enough to have it.
func (r Row) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Table is an ordered set of rows where row 0 is the header.
//
// Data rows are aligned to the header by position. Column names are assumed
// unique; lookups return the first match.
type Table []Row

// Header returns row 0 or ErrInvalidTable when the table is empty.
func (t Table) Header() (Row, error) {
	if len(t) == 0 {
		return nil, ErrInvalidTable
	}
	return t[0], nil
}

// Rows returns the data rows (everything after the header).
func (t Table) Rows() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// ColumnIndex finds name in the header.
func (t Table) ColumnIndex(name string) (int, error) {
	header, err := t.Header()
	if err != nil {
		return -1, err
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, &MissingColumnError{Column: name}
}

// Clone returns a deep copy so callers can hand out results without sharing backing arrays.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = append(Row(nil), r...)
	}
	return out
}
