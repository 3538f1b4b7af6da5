package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "profile", p)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	p, err := h.Svc.Follow(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "profile", p)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	p, err := h.Svc.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "profile", p)
}
