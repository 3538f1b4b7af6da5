package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/application"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-realworld/pkg/response"
)

type ArticleHandler struct {
	Svc    *application.ArticleService
	Logger *logrus.Logger
}

func NewArticleHandler(svc *application.ArticleService, logger *logrus.Logger) *ArticleHandler {
	return &ArticleHandler{Svc: svc, Logger: logger}
}

type listQuery struct {
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Favorited string `form:"favorited"`
	Limit     int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Offset    int    `form:"offset" binding:"omitempty,gte=0"`
}

func (q listQuery) facets() repo.ArticleFacets {
	return repo.ArticleFacets{Tag: q.Tag, Author: q.Author, Favorited: q.Favorited, Limit: q.Limit, Offset: q.Offset}
}

type searchQuery struct {
	Q     string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

type createArticleRequest struct {
	Article struct {
		Title       string   `json:"title" binding:"required,max=255"`
		Description string   `json:"description" binding:"max=255"`
		Body        string   `json:"body" binding:"required"`
		TagList     []string `json:"tagList" binding:"max=20,dive,max=64"`
	} `json:"article"`
}

type updateArticleRequest struct {
	Article struct {
		Title       string `json:"title" binding:"max=255"`
		Description string `json:"description" binding:"max=255"`
		Body        string `json:"body"`
	} `json:"article"`
}

type commentRequest struct {
	Comment struct {
		Body string `json:"body" binding:"required"`
	} `json:"comment"`
}

func (h *ArticleHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}
	out, err := h.Svc.GetArticles(c.Request.Context(), middleware.UserID(c), q.facets())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Raw(c, http.StatusOK, out)
}

func (h *ArticleHandler) Feed(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}
	out, err := h.Svc.GetFeedArticles(c.Request.Context(), middleware.UserID(c), q.facets())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Raw(c, http.StatusOK, out)
}

func (h *ArticleHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}
	out, err := h.Svc.SearchArticles(c.Request.Context(), middleware.UserID(c), q.Q, q.Limit)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Raw(c, http.StatusOK, out)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	a, err := h.Svc.GetSingleArticle(c.Request.Context(), middleware.UserID(c), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "article", a)
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	a, err := h.Svc.CreateArticle(c.Request.Context(), middleware.UserID(c), application.CreateArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, "article", a)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	a, err := h.Svc.UpdateArticle(c.Request.Context(), middleware.UserID(c), c.Param("slug"), application.UpdateArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "article", a)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteArticle(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArticleHandler) Favorite(c *gin.Context) {
	a, err := h.Svc.FavoriteArticle(c.Request.Context(), middleware.UserID(c), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "article", a)
}

func (h *ArticleHandler) Unfavorite(c *gin.Context) {
	a, err := h.Svc.UnfavoriteArticle(c.Request.Context(), middleware.UserID(c), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "article", a)
}

func (h *ArticleHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	cm, err := h.Svc.CreateComment(c.Request.Context(), middleware.UserID(c), c.Param("slug"), req.Comment.Body)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, "comment", cm)
}

func (h *ArticleHandler) ListComments(c *gin.Context) {
	comments, err := h.Svc.GetArticleComments(c.Request.Context(), middleware.UserID(c), c.Param("slug"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, "comments", comments)
}

func (h *ArticleHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, h.Logger, fmt.Errorf("comment id %q: %w", c.Param("id"), application.ErrNotFound))
		return
	}
	if err := h.Svc.DeleteComment(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
