package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/guttosm/gastos/internal/domain/models"
)

// ErrInvalidMonth is returned for a month that is not a two-digit "01".."12" string.
var ErrInvalidMonth = errors.New("invalid month")

// ParseMonth validates a zero-padded two-digit month.
func ParseMonth(month string) (time.Month, error) {
	if len(month) != 2 || !isDigit(month[0]) || !isDigit(month[1]) {
		return 0, fmt.Errorf("%w: %q, expected MM", ErrInvalidMonth, month)
	}
	n, err := strconv.Atoi(month)
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("%w: %q, expected 01-12", ErrInvalidMonth, month)
	}
	return time.Month(n), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// FilterByMonth keeps the header and the rows dated in month of the schema's
// reference year. The month and year slices of the date cell are compared as
// text, so the day part is never inspected. Rows whose date cell is missing or
// shorter than "DD/MM/YYYY" are dropped.
func (a *Analyzer) FilterByMonth(t models.Table, month string) (models.Table, error) {
	if _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	year := strconv.Itoa(a.schema.ReferenceYear)
	dateIdx, err := t.ColumnIndex(a.schema.DateColumn)
	if err != nil {
		return nil, err
	}

	return keepRows(t, func(row models.Row) bool {
		cell, ok := row.Cell(dateIdx)
		if !ok {
			return false
		}
		d, ok := models.SplitDate(cell)
		return ok && d.Month == month && d.Year == year
	}), nil
}

// FilterByColumnValue keeps the header and the rows whose cell in column is
// exactly value. No trimming or case folding is applied.
func (a *Analyzer) FilterByColumnValue(t models.Table, column, value string) (models.Table, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return keepRows(t, func(row models.Row) bool {
		cell, ok := row.Cell(idx)
		return ok && cell == value
	}), nil
}

// keepRows copies the header and every data row accepted by keep.
func keepRows(t models.Table, keep func(models.Row) bool) models.Table {
	out := models.Table{append(models.Row(nil), t[0]...)}
	for _, row := range t.Rows() {
		if keep(row) {
			out = append(out, append(models.Row(nil), row...))
		}
	}
	return out
}
