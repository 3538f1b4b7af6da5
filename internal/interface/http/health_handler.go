package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Check probes one dependency, e.g. the database or Redis.
type Check func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Check
	Logger *logrus.Logger
}

func NewHealthHandler(checks map[string]Check, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Checks: checks, Logger: logger}
}

// Healthz reports 200 when every check passes and 503 otherwise. Failure
// details go to the log only.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).WithFields(logrus.Fields{
					"check":      name,
					"request_id": c.GetString("request_id"),
				}).Error("health check failed")
			}
			results[name] = "fail"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
}
