// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"
	"strconv"

	"texttabs-service/internal/middleware"
	"texttabs-service/internal/pkg/response"
	dashsvc "texttabs-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *dashsvc.Service
}

func NewDashboardHandler(service *dashsvc.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats returns the aggregate counter block.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.RawToken(c), middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetChart returns the daily activity series. ?period=N selects the window
// in days, default 30.
func (h *DashboardHandler) GetChart(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("period", "30"))

	series, err := h.service.Chart(c.Request.Context(), middleware.RawToken(c), days, middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

// GetActivity returns the recent-activity feed.
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	entries, err := h.service.Activity(c.Request.Context(), middleware.RawToken(c), middleware.ResilienceState(c))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
