package dto

import "github.com/guttosm/gastos/internal/domain/models"

// GroupTotalResponse is one (group, total) pair of an aggregate.
type GroupTotalResponse struct {
	Group string  `json:"group" example:"Lazer"`   // Raw cell value of the grouping column
	Total float64 `json:"total" example:"1250.50"` // Sum of the amount column for the group
}

// AggregateResponse represents the JSON structure returned by the totals endpoints.
//
// Totals is an array ordered by total descending; ties keep the order in which
// groups first appear in the sheet.
type AggregateResponse struct {
	Month      string               `json:"month" example:"09"`
	Year       int                  `json:"year" example:"2025"`
	Column     string               `json:"column" example:"Categoria"`
	Category   string               `json:"category,omitempty" example:"Lazer"`
	Totals     []GroupTotalResponse `json:"totals"`
	GrandTotal float64              `json:"grand_total" example:"1250.50"`
}

// NewAggregateResponse converts a domain aggregate. Totals is never null.
func NewAggregateResponse(month string, year int, column, category string, agg models.Aggregate) AggregateResponse {
	totals := make([]GroupTotalResponse, 0, len(agg))
	for _, g := range agg {
		totals = append(totals, GroupTotalResponse{Group: g.Key, Total: g.Total.InexactFloat64()})
	}
	return AggregateResponse{
		Month:      month,
		Year:       year,
		Column:     column,
		Category:   category,
		Totals:     totals,
		GrandTotal: agg.Sum().InexactFloat64(),
	}
}

// RowsResponse is the cleaned, month-filtered table.
type RowsResponse struct {
	Month  string     `json:"month" example:"09"`
	Year   int        `json:"year" example:"2025"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// NewRowsResponse splits the header from the data rows. Rows is never null.
func NewRowsResponse(month string, year int, t models.Table) RowsResponse {
	resp := RowsResponse{Month: month, Year: year, Header: []string{}, Rows: [][]string{}}
	if len(t) == 0 {
		return resp
	}
	resp.Header = t[0]
	for _, r := range t[1:] {
		resp.Rows = append(resp.Rows, r)
	}
	return resp
}
