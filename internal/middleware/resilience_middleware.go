// internal/middleware/resilience_middleware.go
package middleware

import (
	"strconv"

	"texttabs-service/internal/pkg/resilience"

	"github.com/gin-gonic/gin"
)

// Resilience attaches the per-session fallback notice state. Keyed by user
// id so the "working on demo data" notice fires once per logged-in session,
// not once per request and not once globally. Must run after Auth().
func Resilience(store *resilience.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id := UserID(c); id != 0 {
			key = "user:" + strconv.FormatInt(id, 10)
		}
		c.Set(ctxResilience, store.Get(key))
		c.Next()
	}
}
