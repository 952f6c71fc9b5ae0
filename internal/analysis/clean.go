package analysis

import (
	"strings"

	"github.com/guttosm/gastos/internal/domain/models"
)

// Clean drops blank rows and fills empty cells with models.MissingCell.
//
// A row is blank when it has no cells or every cell is whitespace. Row order
// and row lengths are preserved. Clean is idempotent.
func Clean(t models.Table) models.Table {
	out := make(models.Table, 0, len(t))
	for _, row := range t {
		if isBlank(row) {
			continue
		}
		cleaned := make(models.Row, len(row))
		for i, cell := range row {
			if cell == "" {
				cell = models.MissingCell
			}
			cleaned[i] = cell
		}
		out = append(out, cleaned)
	}
	return out
}

func isBlank(row models.Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
