package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/internal/container"
	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

// UserModule wires registration, login and the current-user endpoints
// Public: POST /api/users, POST /api/users/login
// Protected: POST /api/users/logout, GET|PUT /api/user, POST /api/user/image
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	limiter := authLimiter()
	rg.POST("/users", limiter, m.Handler.Register)
	rg.POST("/users/login", limiter, m.Handler.Login)

	auth := middleware.RequireAuth(container.GetRedis(), m.JWT)
	rg.POST("/users/logout", auth, m.Handler.Logout)

	me := rg.Group("/user")
	me.Use(auth, writeLimiter())
	{
		me.GET("", m.Handler.Current)
		me.PUT("", m.Handler.Update)
		me.POST("/image", m.Handler.UploadImage)
	}
}
