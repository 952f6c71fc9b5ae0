// Package analysis implements the expense pipeline: cleaning raw spreadsheet
// rows, filtering them by month and by column value, and summing amounts per
// group. Every function is pure; inputs are never modified.
package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Schema names the spreadsheet columns the pipeline relies on and the year
// that month filters match against.
type Schema struct {
	DateColumn     string
	CategoryColumn string
	ItemColumn     string
	AmountColumn   string
	ReferenceYear  int
}

// DefaultSchema matches the layout of the household expenses sheet.
func DefaultSchema() Schema {
	return Schema{
		DateColumn:     "Data",
		CategoryColumn: "Categoria",
		ItemColumn:     "Item",
		AmountColumn:   "Valor_total",
		ReferenceYear:  2025,
	}
}

// Validate reports every empty column name and an out-of-range year.
func (s Schema) Validate() error {
	var problems []string
	if strings.TrimSpace(s.DateColumn) == "" {
		problems = append(problems, "date column is empty")
	}
	if strings.TrimSpace(s.CategoryColumn) == "" {
		problems = append(problems, "category column is empty")
	}
	if strings.TrimSpace(s.ItemColumn) == "" {
		problems = append(problems, "item column is empty")
	}
	if strings.TrimSpace(s.AmountColumn) == "" {
		problems = append(problems, "amount column is empty")
	}
	if s.ReferenceYear < 1900 || s.ReferenceYear > 9999 {
		problems = append(problems, fmt.Sprintf("reference year %d out of range", s.ReferenceYear))
	}
	if len(problems) > 0 {
		return errors.New("invalid schema: " + strings.Join(problems, "; "))
	}
	return nil
}
