package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/analysis"
	"github.com/guttosm/gastos/internal/domain/dto"
	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/guttosm/gastos/internal/ingestion"
	"github.com/guttosm/gastos/internal/middleware"
	"github.com/guttosm/gastos/internal/service"
)

// maxPayloadBytes bounds the body accepted by the analyze endpoint.
const maxPayloadBytes = 10 << 20

// Handler provides HTTP handlers for the expense analysis endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Call the expense service with the request context
//   - Translate results into response DTOs
//   - Map domain errors to HTTP status codes
type Handler struct {
	svc service.ExpenseService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.ExpenseService) *Handler {
	return &Handler{svc: svc}
}

// ListMonth handles GET /api/v1/expenses.
//
// ListMonth godoc
// @Summary      List expenses of a month
// @Description  Returns the cleaned rows dated in the given month of the reference year
// @Tags         expenses
// @Produce      json
// @Param        month  query     string  true  "Two-digit month" example(09)
// @Success      200    {object}  dto.RowsResponse   "Success"
// @Failure      400    {object}  dto.ErrorResponse  "Bad Request"
// @Failure      422    {object}  dto.ErrorResponse  "Missing column"
// @Failure      502    {object}  dto.ErrorResponse  "Source unavailable"
// @Router       /api/v1/expenses [get]
func (h *Handler) ListMonth(c *gin.Context) {
	month, ok := requiredQuery(c, "month")
	if !ok {
		return
	}
	rows, err := h.svc.MonthRows(c.Request.Context(), month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRowsResponse(month, h.svc.Schema().ReferenceYear, rows))
}

// TotalsByColumn handles GET /api/v1/expenses/totals.
//
// TotalsByColumn godoc
// @Summary      Totals grouped by a column
// @Description  Sums the amount column of the month's rows grouped by the given column, largest first
// @Tags         expenses
// @Produce      json
// @Param        month   query     string  true  "Two-digit month" example(09)
// @Param        column  query     string  true  "Grouping column" example(Categoria)
// @Success      200     {object}  dto.AggregateResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422     {object}  dto.ErrorResponse      "Missing column"
// @Failure      502     {object}  dto.ErrorResponse      "Source unavailable"
// @Router       /api/v1/expenses/totals [get]
func (h *Handler) TotalsByColumn(c *gin.Context) {
	month, ok := requiredQuery(c, "month")
	if !ok {
		return
	}
	column, ok := requiredQuery(c, "column")
	if !ok {
		return
	}
	agg, err := h.svc.TotalsByColumn(c.Request.Context(), month, column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAggregateResponse(month, h.svc.Schema().ReferenceYear, column, "", agg))
}

// ItemsForCategory handles GET /api/v1/expenses/categories/:category/items.
//
// ItemsForCategory godoc
// @Summary      Item totals of a category
// @Description  Sums the month's rows of one category grouped by item, largest first
// @Tags         expenses
// @Produce      json
// @Param        category  path      string  true  "Category value (exact match)" example(Lazer)
// @Param        month     query     string  true  "Two-digit month" example(09)
// @Success      200       {object}  dto.AggregateResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422       {object}  dto.ErrorResponse      "Missing column"
// @Failure      502       {object}  dto.ErrorResponse      "Source unavailable"
// @Router       /api/v1/expenses/categories/{category}/items [get]
func (h *Handler) ItemsForCategory(c *gin.Context) {
	month, ok := requiredQuery(c, "month")
	if !ok {
		return
	}
	category := c.Param("category")
	agg, err := h.svc.ItemsForCategory(c.Request.Context(), month, category)
	if err != nil {
		writeError(c, err)
		return
	}
	schema := h.svc.Schema()
	c.JSON(http.StatusOK, dto.NewAggregateResponse(month, schema.ReferenceYear, schema.ItemColumn, category, agg))
}

// Analyze handles POST /api/v1/expenses/analyze over a JSON or CSV body.
//
// Analyze godoc
// @Summary      Analyze an uploaded export
// @Description  Runs the totals pipeline over the request body (JSON array of arrays, or CSV)
// @Tags         expenses
// @Accept       json
// @Accept       text/csv
// @Produce      json
// @Param        month     query     string  true   "Two-digit month" example(09)
// @Param        column    query     string  false  "Grouping column (defaults to the category column); not allowed with category" example(Fonte)
// @Param        category  query     string  false  "When set, item totals of this category are returned; not allowed with column" example(Lazer)
// @Success      200       {object}  dto.AggregateResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse      "Bad Request (including column together with category)"
// @Failure      422       {object}  dto.ErrorResponse      "Missing column"
// @Router       /api/v1/expenses/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	month, ok := requiredQuery(c, "month")
	if !ok {
		return
	}
	column := strings.TrimSpace(c.Query("column"))
	category := c.Query("category")
	if column != "" && category != "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "column and category are mutually exclusive", nil)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "failed to read body", err)
		return
	}
	if len(payload) == 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "request body is required", nil)
		return
	}

	agg, err := h.svc.AnalyzePayload(c.Request.Context(), payload, month, column, category)
	if err != nil {
		writeError(c, err)
		return
	}

	schema := h.svc.Schema()
	switch {
	case category != "":
		column = schema.ItemColumn
	case column == "":
		column = schema.CategoryColumn
	}
	c.JSON(http.StatusOK, dto.NewAggregateResponse(month, schema.ReferenceYear, column, category, agg))
}

func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, name+" is required", nil)
		return "", false
	}
	return v, true
}

// writeError maps service errors to status codes.
func writeError(c *gin.Context, err error) {
	var missing *models.MissingColumnError
	switch {
	case errors.Is(err, analysis.ErrInvalidMonth):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid month, expected MM (01-12)", err)
	case errors.As(err, &missing):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "missing column "+missing.Column, err)
	case errors.Is(err, models.ErrInvalidTable):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "table has no header row", err)
	case errors.Is(err, ingestion.ErrUndecodablePayload):
		middleware.AbortWithError(c, http.StatusBadRequest, "payload is neither JSON nor CSV", err)
	case errors.Is(err, service.ErrSourceUnavailable):
		middleware.AbortWithError(c, http.StatusBadGateway, "expense source unavailable", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to analyze expenses", err)
	}
}
