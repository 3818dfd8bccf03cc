// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"

	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/response"
	"texttabs-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth validates the bearer token and loads the verified identity into the
// request context. Every token failure is a 401: the class of failure
// (malformed, bad signature, expired, revoked) is not leaked to the caller.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			response.Unauthorized(c, errors.New("missing authorization token"))
			return
		}

		payload, err := m.authService.VerifyToken(c.Request.Context(), raw)
		if err != nil {
			response.Unauthorized(c, errors.New("invalid or expired token"))
			return
		}

		c.Set(ctxUserID, payload.UserID)
		c.Set(ctxEmail, payload.Email)
		c.Set(ctxRole, payload.Role)
		c.Set(ctxRawToken, raw)

		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not in the allowed
// set. Must run after Auth().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Forbidden(c, xerrors.ErrForbidden)
	}
}
