// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"texttabs-service/internal/middleware"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/resilience"
	"texttabs-service/internal/pkg/response"
	"texttabs-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *auth.AuthService
	states      *resilience.Store
	logger      *zap.Logger
}

func NewAuthHandler(authService *auth.AuthService, states *resilience.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		states:      states,
		logger:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userPayload struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Login authenticates a credential pair and returns the issued token with
// the resolved user. Credential failures are 400s with an intentionally
// generic message.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrAccountBlocked):
			response.AppError(c, xerrors.ErrAccountBlocked)
		case errors.Is(err, xerrors.ErrInvalidCredentials):
			response.AppError(c, xerrors.ErrInvalidCredentials)
		default:
			if h.logger != nil {
				h.logger.Error("login failed", zap.Error(err))
			}
			response.AppError(c, xerrors.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user": userPayload{
			ID:     res.User.ID,
			Email:  res.User.Email,
			Role:   res.User.Role,
			Status: res.User.Status,
		},
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

// VerifyToken validates a token and returns the identity baked into it. The
// token comes from the Authorization header or, for legacy callers, the
// request body.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.Token
		}
	}
	if raw == "" {
		response.Unauthorized(c, errors.New("missing token"))
		return
	}

	payload, err := h.authService.VerifyToken(c.Request.Context(), raw)
	if err != nil {
		response.Unauthorized(c, errors.New("invalid or expired token"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_id": payload.UserID,
		"email":   payload.Email,
		"role":    payload.Role,
	})
}

// Logout tears down the caller's session on every side and forgets the
// session's resilience state, so a later login starts fresh.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		if h.logger != nil {
			h.logger.Error("logout failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		response.AppError(c, xerrors.ErrInternal)
		return
	}

	h.states.Drop("user:" + strconv.FormatInt(userID, 10))
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated identity from the verified token.
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user_id": middleware.UserID(c),
		"email":   middleware.Email(c),
		"role":    middleware.Role(c),
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
