package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/gastos/internal/analysis"
	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/guttosm/gastos/internal/ingestion"
	"github.com/guttosm/gastos/internal/logger"
)

// ErrSourceUnavailable wraps failures of the underlying table source.
var ErrSourceUnavailable = errors.New("expense source unavailable")

// TableSource yields the raw expense table, header first.
type TableSource interface {
	FetchTable(ctx context.Context) (models.Table, error)
}

// ExpenseService defines the expense analyses exposed to consumers.
type ExpenseService interface {
	MonthRows(ctx context.Context, month string) (models.Table, error)
	TotalsByColumn(ctx context.Context, month, column string) (models.Aggregate, error)
	ItemsForCategory(ctx context.Context, month, category string) (models.Aggregate, error)
	AnalyzePayload(ctx context.Context, payload []byte, month, column, category string) (models.Aggregate, error)
	Schema() analysis.Schema
}

type expenseService struct {
	source   TableSource
	analyzer *analysis.Analyzer
}

func NewExpenseService(source TableSource, analyzer *analysis.Analyzer) ExpenseService {
	return &expenseService{source: source, analyzer: analyzer}
}

func (s *expenseService) Schema() analysis.Schema {
	return s.analyzer.Schema()
}

// MonthRows returns the cleaned rows of the month, header included.
func (s *expenseService) MonthRows(ctx context.Context, month string) (models.Table, error) {
	table, err := s.fetch(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.analyzer.FilterByMonth(table, month)
}

// TotalsByColumn sums the month's amounts grouped by column.
func (s *expenseService) TotalsByColumn(ctx context.Context, month, column string) (models.Aggregate, error) {
	table, err := s.fetch(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeByColumn(table, month, column)
}

// ItemsForCategory sums the month's amounts of one category grouped by item.
func (s *expenseService) ItemsForCategory(ctx context.Context, month, category string) (models.Aggregate, error) {
	table, err := s.fetch(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeItemsForCategory(table, month, category)
}

// AnalyzePayload runs the same analyses over a caller-supplied export.
// A non-empty category selects the item breakdown of that category;
// otherwise totals are grouped by column (the category column when empty).
func (s *expenseService) AnalyzePayload(ctx context.Context, payload []byte, month, column, category string) (models.Aggregate, error) {
	if _, err := analysis.ParseMonth(month); err != nil {
		return nil, err
	}
	raw, err := ingestion.DecodeTable(payload)
	if err != nil {
		return nil, err
	}
	table := analysis.Clean(raw)
	logger.L().Debug().Int("rows", len(table)).Str("month", month).Msg("payload decoded")

	if category != "" {
		return s.analyzer.AnalyzeItemsForCategory(table, month, category)
	}
	if column == "" {
		column = s.analyzer.Schema().CategoryColumn
	}
	return s.analyzer.AnalyzeByColumn(table, month, column)
}

// fetch validates the month before touching the source, then returns the
// cleaned table.
func (s *expenseService) fetch(ctx context.Context, month string) (models.Table, error) {
	if _, err := analysis.ParseMonth(month); err != nil {
		return nil, err
	}
	start := time.Now()
	raw, err := s.source.FetchTable(ctx)
	if err != nil {
		logger.L().Error().Err(err).Str("month", month).Dur("elapsed", time.Since(start)).Msg("fetch expense table failed")
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	table := analysis.Clean(raw)
	logger.L().Debug().Int("rows", len(table)).Str("month", month).Dur("elapsed", time.Since(start)).Msg("expense table fetched")
	return table, nil
}
