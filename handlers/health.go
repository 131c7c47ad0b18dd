package handlers

import (
	"net/http"

	"astrodesk/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

// Health handles GET /health with the last periodic snapshot.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.Monitor.Status()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "services": status.Services, "checked_at": status.CheckedAt})
}
