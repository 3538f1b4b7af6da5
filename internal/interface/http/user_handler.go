package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
)

const maxImageSize = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	User struct {
		Username string `json:"username" binding:"required,username"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,pwd"`
	} `json:"user"`
}

type loginRequest struct {
	User struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	} `json:"user"`
}

type updateUserRequest struct {
	User struct {
		Email    string `json:"email" binding:"omitempty,email"`
		Username string `json:"username" binding:"omitempty,username"`
		Password string `json:"password" binding:"omitempty,pwd"`
		Bio      string `json:"bio"`
		Image    string `json:"image" binding:"omitempty,url"`
	} `json:"user"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, "user", u)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.User.Email, req.User.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "user", u)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Current(c *gin.Context) {
	u, err := h.Svc.Current(c.Request.Context(), middleware.UserID(c), middleware.Token(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "user", u)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), middleware.Token(c), entity.UserUpdate{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "user", u)
}

// UploadImage accepts a multipart "image" file and stores it as the avatar.
func (h *UserHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Fields(c, http.StatusUnprocessableEntity, map[string][]string{"image": {"is required (max 5MB)"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadImage(c.Request.Context(), middleware.UserID(c), middleware.Token(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "user", u)
}
