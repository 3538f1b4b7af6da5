package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/internal/container"
	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	profiles := rg.Group("/profiles/:username")
	profiles.GET("", middleware.OptionalAuth(rdb, m.JWT), m.Handler.Get)

	follow := profiles.Group("/follow")
	follow.Use(middleware.RequireAuth(rdb, m.JWT), writeLimiter())
	{
		follow.POST("", m.Handler.Follow)
		follow.DELETE("", m.Handler.Unfollow)
	}
}
