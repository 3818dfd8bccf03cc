// internal/middleware/recovery_middleware.go
package middleware

import (
	"errors"
	"net/http"

	"texttabs-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery converts panics into envelope 500s instead of dropped
// connections.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Error("panic recovered",
						zap.Any("panic", r),
						zap.String("path", c.Request.URL.Path),
					)
				}
				response.Error(c, http.StatusInternalServerError, errors.New("internal server error"))
			}
		}()
		c.Next()
	}
}
