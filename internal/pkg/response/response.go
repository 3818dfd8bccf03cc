// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns. Fallback responses use the
// exact same shape, so consumers cannot tell live and demo data apart by
// structure.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with optional data.
func Success(c *gin.Context, status int, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// Error sends a standardized error response and aborts the handler chain.
func Error(c *gin.Context, code int, err error) {
	c.Abort()

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	c.JSON(code, Response{
		Success: false,
		Error:   msg,
	})
}

// AppError sends a 400 Bad Request. Every caught application error (bad
// input, failed write, upstream rejection) uses this status, matching the
// backend contract.
func AppError(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, err error) {
	Error(c, http.StatusUnauthorized, err)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, err error) {
	Error(c, http.StatusForbidden, err)
}
