// internal/handlers/settings/settings_handler.go
package settings

import (
	"net/http"
	"strconv"

	domain "texttabs-service/internal/domain/setting"
	"texttabs-service/internal/middleware"
	xerrors "texttabs-service/internal/pkg/errors"
	"texttabs-service/internal/pkg/response"
	settingssvc "texttabs-service/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service *settingssvc.Service
}

func NewSettingsHandler(service *settingssvc.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings returns the system settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), middleware.RawToken(c), middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// UpdateSettings writes settings keys.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	if err := h.service.Update(c.Request.Context(), middleware.RawToken(c), req, middleware.ResilienceState(c)); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "settings updated"})
}

// GetNotifications returns the admin notification feed.
func (h *SettingsHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.service.Notifications(c.Request.Context(), middleware.RawToken(c), middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, notifications)
}

// MarkNotificationRead flags one notification as read.
func (h *SettingsHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.AppError(c, xerrors.ErrInvalidInput)
		return
	}

	if err := h.service.MarkNotificationRead(c.Request.Context(), middleware.RawToken(c), id, middleware.ResilienceState(c)); err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "notification marked read"})
}
