package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
)

type TagHandler struct {
	Svc    *application.TagService
	Logger *logrus.Logger
}

func NewTagHandler(svc *application.TagService, logger *logrus.Logger) *TagHandler {
	return &TagHandler{Svc: svc, Logger: logger}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.Svc.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "tags", tags)
}
