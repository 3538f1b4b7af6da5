package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
	"github.com/oksasatya/go-ddd-realworld/internal/metrics"
)

// OpsModule serves /healthz and, when enabled, the Prometheus /metrics endpoint.
type OpsModule struct {
	Health  *handlers.HealthHandler
	Metrics bool
}

func NewOpsModule(h *handlers.HealthHandler, withMetrics bool) *OpsModule {
	return &OpsModule{Health: h, Metrics: withMetrics}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Healthz)
	if m.Metrics {
		rg.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
