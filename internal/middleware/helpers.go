// internal/middleware/helpers.go
package middleware

import (
	"strings"

	"texttabs-service/internal/pkg/resilience"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID     = "user_id"
	ctxEmail      = "email"
	ctxRole       = "role"
	ctxRawToken   = "raw_token"
	ctxResilience = "resilience_state"
)

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user's id, 0 when unauthenticated.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// Email returns the authenticated user's email.
func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// Role returns the authenticated user's role.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// RawToken returns the bearer token the request authenticated with.
func RawToken(c *gin.Context) string {
	return c.GetString(ctxRawToken)
}

// ResilienceState returns the per-session fallback notice state attached by
// the resilience middleware, nil when absent.
func ResilienceState(c *gin.Context) *resilience.SessionState {
	if v, ok := c.Get(ctxResilience); ok {
		if state, ok := v.(*resilience.SessionState); ok {
			return state
		}
	}
	return nil
}
