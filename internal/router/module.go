package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-realworld/internal/router/modules"
)

// Module is one feature area (users, articles, ...) that mounts its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

var (
	_ Module = (*modules.UserModule)(nil)
	_ Module = (*modules.ProfileModule)(nil)
	_ Module = (*modules.ArticleModule)(nil)
	_ Module = (*modules.TagModule)(nil)
	_ Module = (*modules.DebugModule)(nil)
	_ Module = (*modules.OpsModule)(nil)
)
