package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guttosm/gastos/internal/analysis"
	"github.com/guttosm/gastos/internal/domain/dto"
	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/guttosm/gastos/internal/ingestion"
	"github.com/guttosm/gastos/internal/service"
)

// mockExpenseService records the arguments of the last call.
type mockExpenseService struct {
	rows models.Table
	agg  models.Aggregate
	err  error

	month, column, category string
	payload                 []byte
}

func (m *mockExpenseService) MonthRows(_ context.Context, month string) (models.Table, error) {
	m.month = month
	return m.rows, m.err
}

func (m *mockExpenseService) TotalsByColumn(_ context.Context, month, column string) (models.Aggregate, error) {
	m.month, m.column = month, column
	return m.agg, m.err
}

func (m *mockExpenseService) ItemsForCategory(_ context.Context, month, category string) (models.Aggregate, error) {
	m.month, m.category = month, category
	return m.agg, m.err
}

func (m *mockExpenseService) AnalyzePayload(_ context.Context, payload []byte, month, column, category string) (models.Aggregate, error) {
	m.payload, m.month, m.column, m.category = payload, month, column, category
	return m.agg, m.err
}

func (m *mockExpenseService) Schema() analysis.Schema { return analysis.DefaultSchema() }

var _ service.ExpenseService = (*mockExpenseService)(nil)

func setupRouterWithMock(s service.ExpenseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(s), RouterOptions{})
}

func lazerItems() models.Aggregate {
	return models.Aggregate{
		{Key: "Jogo", Total: decimal.RequireFromString("1200.50")},
		{Key: "Cinema", Total: decimal.RequireFromString("50")},
	}
}

func TestHandlers_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		svc     *mockExpenseService
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{name: "month required", svc: &mockExpenseService{}, method: http.MethodGet, target: "/api/v1/expenses", status: http.StatusBadRequest, message: "month is required"},
		{name: "column required", svc: &mockExpenseService{}, method: http.MethodGet, target: "/api/v1/expenses/totals?month=09", status: http.StatusBadRequest, message: "column is required"},
		{name: "invalid month", svc: &mockExpenseService{err: fmt.Errorf("filter by month: %w", analysis.ErrInvalidMonth)}, method: http.MethodGet, target: "/api/v1/expenses/totals?month=9&column=Categoria", status: http.StatusBadRequest},
		{name: "missing column", svc: &mockExpenseService{err: fmt.Errorf("aggregate by Fonte: %w", &models.MissingColumnError{Column: "Fonte"})}, method: http.MethodGet, target: "/api/v1/expenses/totals?month=09&column=Fonte", status: http.StatusUnprocessableEntity, message: "missing column Fonte"},
		{name: "invalid table", svc: &mockExpenseService{err: models.ErrInvalidTable}, method: http.MethodGet, target: "/api/v1/expenses?month=09", status: http.StatusUnprocessableEntity},
		{name: "source down", svc: &mockExpenseService{err: fmt.Errorf("%w: quota", service.ErrSourceUnavailable)}, method: http.MethodGet, target: "/api/v1/expenses/categories/Lazer/items?month=09", status: http.StatusBadGateway},
		{name: "unexpected", svc: &mockExpenseService{err: errors.New("boom")}, method: http.MethodGet, target: "/api/v1/expenses?month=09", status: http.StatusInternalServerError},
		{name: "undecodable payload", svc: &mockExpenseService{err: ingestion.ErrUndecodablePayload}, method: http.MethodPost, target: "/api/v1/expenses/analyze?month=09", body: "a,\"b", status: http.StatusBadRequest},
		{name: "empty payload", svc: &mockExpenseService{}, method: http.MethodPost, target: "/api/v1/expenses/analyze?month=09", status: http.StatusBadRequest, message: "request body is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
			if w.Code != tc.status {
				t.Fatalf("want %d got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if tc.message != "" && body.Message != tc.message {
				t.Fatalf("message=%q want %q", body.Message, tc.message)
			}
		})
	}
}

func TestListMonth(t *testing.T) {
	svc := &mockExpenseService{rows: models.Table{
		{"Data", "Categoria", "Item", "Valor_total"},
		{"05/09/2025", "Lazer", "Cinema", "R$ 50,00"},
	}}
	r := setupRouterWithMock(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/expenses?month=09", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	var out dto.RowsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Year != 2025 || len(out.Header) != 4 || len(out.Rows) != 1 || out.Rows[0][2] != "Cinema" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestTotalsByColumn(t *testing.T) {
	svc := &mockExpenseService{agg: models.Aggregate{{Key: "Lazer", Total: decimal.RequireFromString("1250.50")}}}
	r := setupRouterWithMock(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/expenses/totals?month=09&column=Categoria", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	if svc.month != "09" || svc.column != "Categoria" {
		t.Fatalf("service called with month=%q column=%q", svc.month, svc.column)
	}
	var out dto.AggregateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out.Totals) != 1 || out.Totals[0].Group != "Lazer" || out.Totals[0].Total != 1250.5 || out.GrandTotal != 1250.5 {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestItemsForCategory(t *testing.T) {
	svc := &mockExpenseService{agg: lazerItems()}
	r := setupRouterWithMock(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/expenses/categories/Lazer/items?month=09", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	var out dto.AggregateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if svc.category != "Lazer" || out.Category != "Lazer" || out.Column != "Item" {
		t.Fatalf("unexpected call/body: %q %+v", svc.category, out)
	}
	if out.Totals[0].Group != "Jogo" || out.Totals[1].Group != "Cinema" {
		t.Fatalf("order not preserved: %+v", out.Totals)
	}
}

func TestAnalyze(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantColumn string
	}{
		{name: "default column", query: "month=09", wantColumn: "Categoria"},
		{name: "explicit column", query: "month=09&column=Fonte", wantColumn: "Fonte"},
		{name: "category", query: "month=09&category=Lazer", wantColumn: "Item"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockExpenseService{agg: lazerItems()}
			r := setupRouterWithMock(svc)
			body := `[["Data","Valor_total"]]`
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/expenses/analyze?"+tc.query, strings.NewReader(body)))
			if w.Code != http.StatusOK {
				t.Fatalf("want 200 got %d (%s)", w.Code, w.Body.String())
			}
			if string(svc.payload) != body {
				t.Fatalf("payload not forwarded: %q", svc.payload)
			}
			var out dto.AggregateResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if out.Column != tc.wantColumn {
				t.Fatalf("column=%q want %q", out.Column, tc.wantColumn)
			}
		})
	}
}

func TestAnalyze_ColumnWithCategoryIsRejected(t *testing.T) {
	svc := &mockExpenseService{agg: lazerItems()}
	r := setupRouterWithMock(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses/analyze?month=09&column=Fonte&category=Lazer",
		strings.NewReader(`[["Data","Valor_total"]]`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400 got %d (%s)", w.Code, w.Body.String())
	}
	if svc.payload != nil {
		t.Fatalf("service should not be called, got payload %q", svc.payload)
	}
	if !strings.Contains(w.Body.String(), "mutually exclusive") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
