package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-realworld/internal/interface/http"
)

type TagModule struct {
	Handler *handlers.TagHandler
}

func NewTagModule(h *handlers.TagHandler) *TagModule {
	return &TagModule{Handler: h}
}

func (m *TagModule) Register(rg *gin.RouterGroup) {
	rg.GET("/tags", m.Handler.List)
}
