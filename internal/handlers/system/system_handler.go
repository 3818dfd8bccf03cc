// internal/handlers/system/system_handler.go
package system

import (
	"net/http"

	"texttabs-service/internal/fallback"
	"texttabs-service/internal/pkg/availability"
	"texttabs-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	probe *availability.Probe
}

func NewSystemHandler(probe *availability.Probe) *SystemHandler {
	return &SystemHandler{probe: probe}
}

// Health is the liveness endpoint for this service itself.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
}

// BackendStatus reports the probe's view of the content backend.
// ?refresh=1 forces a fresh canary request past the debounce window.
func (h *SystemHandler) BackendStatus(c *gin.Context) {
	if c.Query("refresh") == "1" {
		h.probe.Refresh(c.Request.Context())
	}

	state := h.probe.State()
	response.Success(c, http.StatusOK, gin.H{
		"backend":          state.Status.String(),
		"last_checked_at":  state.LastCheckedAt,
		"fallback_version": fallback.Version,
	})
}
