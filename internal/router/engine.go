package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/internal/container"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/internal/metrics"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

// NewEngine builds the Gin engine with global middleware and every module
// registered from the container.
func NewEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		helpers.LogWarn(container.GetLogger(), "invalid TRUSTED_PROXIES; trusting none", err, nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}
