package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/internal/container"
	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

// ArticleModule wires articles, comments and favorites under /api/articles.
// Reads accept anonymous callers; everything else requires a token.
type ArticleModule struct {
	Handler *handlers.ArticleHandler
	JWT     *helpers.JWTManager
}

func NewArticleModule(h *handlers.ArticleHandler, jwt *helpers.JWTManager) *ArticleModule {
	return &ArticleModule{Handler: h, JWT: jwt}
}

func (m *ArticleModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	optional := middleware.OptionalAuth(rdb, m.JWT)
	required := middleware.RequireAuth(rdb, m.JWT)
	limiter := writeLimiter()

	articles := rg.Group("/articles")

	articles.GET("", optional, m.Handler.List)
	articles.GET("/feed", required, m.Handler.Feed)
	articles.GET("/search", optional, m.Handler.Search)
	articles.GET("/:slug", optional, m.Handler.Get)
	articles.GET("/:slug/comments", optional, m.Handler.ListComments)

	articles.POST("", required, limiter, m.Handler.Create)
	articles.PUT("/:slug", required, limiter, m.Handler.Update)
	articles.DELETE("/:slug", required, limiter, m.Handler.Delete)
	articles.POST("/:slug/comments", required, limiter, m.Handler.AddComment)
	articles.DELETE("/:slug/comments/:id", required, limiter, m.Handler.DeleteComment)
	articles.POST("/:slug/favorite", required, limiter, m.Handler.Favorite)
	articles.DELETE("/:slug/favorite", required, limiter, m.Handler.Unfavorite)
}
