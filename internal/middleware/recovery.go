package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/domain/dto"
	"github.com/guttosm/gastos/internal/logger"
)

// RecoveryMiddleware turns a panic in any later handler into a 500 JSON
// ErrorResponse. The stack is logged together with the request id so the
// failing request can be found in the request log.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			rid, _ := c.Get(RequestIDKey)
			logger.L().Error().
				Err(cause).
				Str("request_id", toString(rid)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse("internal server error", cause))
		}()

		c.Next()
	}
}
