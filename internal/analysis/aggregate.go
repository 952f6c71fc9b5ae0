package analysis

import (
	"fmt"
	"sort"

	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Analyzer runs the pipeline against a fixed Schema. It holds no mutable
// state and may be shared between goroutines.
type Analyzer struct {
	schema Schema
}

// NewAnalyzer validates schema and returns an Analyzer bound to it.
func NewAnalyzer(schema Schema) (*Analyzer, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{schema: schema}, nil
}

// Schema returns the column layout the analyzer was built with.
func (a *Analyzer) Schema() Schema {
	return a.schema
}

// Aggregate sums the amount column per distinct value of groupColumn.
//
// Group keys are taken verbatim, so "Lazer" and "Lazer " are different groups.
// Rows too short to hold both cells are skipped. The result is ordered by
// total, largest first; ties keep first-seen order.
func (a *Analyzer) Aggregate(t models.Table, groupColumn string) (models.Aggregate, error) {
	groupIdx, err := t.ColumnIndex(groupColumn)
	if err != nil {
		return nil, err
	}
	amountIdx, err := t.ColumnIndex(a.schema.AmountColumn)
	if err != nil {
		return nil, err
	}

	var out models.Aggregate
	pos := make(map[string]int)
	for _, row := range t.Rows() {
		key, ok := row.Cell(groupIdx)
		if !ok {
			continue
		}
		raw, ok := row.Cell(amountIdx)
		if !ok {
			continue
		}
		amount := ParseAmount(raw)

		i, seen := pos[key]
		if !seen {
			pos[key] = len(out)
			out = append(out, models.GroupTotal{Key: key, Total: decimal.Zero})
			i = len(out) - 1
		}
		out[i].Total = out[i].Total.Add(amount)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

// MonthRows cleans the raw table and keeps the rows of month.
func (a *Analyzer) MonthRows(raw models.Table, month string) (models.Table, error) {
	return a.FilterByMonth(Clean(raw), month)
}

// AnalyzeByColumn totals a month's expenses grouped by column.
func (a *Analyzer) AnalyzeByColumn(t models.Table, month, column string) (models.Aggregate, error) {
	filtered, err := a.FilterByMonth(t, month)
	if err != nil {
		return nil, fmt.Errorf("filter by month: %w", err)
	}
	agg, err := a.Aggregate(filtered, column)
	if err != nil {
		return nil, fmt.Errorf("aggregate by %s: %w", column, err)
	}
	return agg, nil
}

// AnalyzeItemsForCategory totals a month's expenses of one category grouped by item.
func (a *Analyzer) AnalyzeItemsForCategory(t models.Table, month, category string) (models.Aggregate, error) {
	filtered, err := a.FilterByMonth(t, month)
	if err != nil {
		return nil, fmt.Errorf("filter by month: %w", err)
	}
	filtered, err = a.FilterByColumnValue(filtered, a.schema.CategoryColumn, category)
	if err != nil {
		return nil, fmt.Errorf("filter by %s: %w", a.schema.CategoryColumn, err)
	}
	agg, err := a.Aggregate(filtered, a.schema.ItemColumn)
	if err != nil {
		return nil, fmt.Errorf("aggregate by %s: %w", a.schema.ItemColumn, err)
	}
	return agg, nil
}
