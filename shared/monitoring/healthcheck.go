package monitoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandlers struct {
	monitor *Monitor
}

func NewHealthHandlers(monitor *Monitor) *HealthHandlers {
	return &HealthHandlers{monitor: monitor}
}

// Register mounts /health, /status and /metrics.
func (h *HealthHandlers) Register(r gin.IRoutes) {
	r.GET("/health", h.healthHandler)
	r.GET("/status", h.statusHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *HealthHandlers) healthHandler(c *gin.Context) {
	if h.monitor.IsHealthy() {
		c.String(http.StatusOK, "OK - %s", h.monitor.GetStatusSummary())
		return
	}
	c.String(http.StatusServiceUnavailable, "Service unhealthy - %s", h.monitor.GetStatusSummary())
}

func (h *HealthHandlers) statusHandler(c *gin.Context) {
	c.String(http.StatusOK, "%s", h.monitor.GetStatusSummary())
}
