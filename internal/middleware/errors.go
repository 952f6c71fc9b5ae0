package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/domain/dto"
)

// ErrorHandler turns errors collected with c.Error into a JSON response when
// the handler did not write one itself.
//
// The status already set by the handler is kept when it is an error status;
// otherwise 500 is used. A dto.ErrorResponse error is rendered as is.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var resp dto.ErrorResponse
	if !errors.As(last, &resp) {
		resp = dto.NewErrorResponse(http.StatusText(status), last)
	}
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithError records err on the context and aborts with a JSON error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
