// Package vo holds the viewer-relative read models returned to the HTTP layer.
// They are built per request from an entity and the (possibly nil) viewer and
// are never persisted.
package vo

import (
	"time"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

type ProfileVO struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

func NewProfileVO(viewer, u *entity.User) ProfileVO {
	return ProfileVO{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: viewer.IsFollowing(u),
	}
}

type ArticleVO struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         ProfileVO `json:"author"`
}

func NewArticleVO(viewer *entity.User, a *entity.Article) ArticleVO {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleVO{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      a.IsFavoritedBy(viewer),
		FavoritesCount: a.FavoritesCount(),
		Author:         NewProfileVO(viewer, a.Author),
	}
}

func NewArticleVOs(viewer *entity.User, articles []*entity.Article) []ArticleVO {
	out := make([]ArticleVO, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleVO(viewer, a))
	}
	return out
}

type CommentVO struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Body      string    `json:"body"`
	Author    ProfileVO `json:"author"`
}

func NewCommentVO(viewer *entity.User, c *entity.Comment) CommentVO {
	return CommentVO{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
		Author:    NewProfileVO(viewer, c.Author),
	}
}

// UserVO is the authenticated user's own view, carrying the bearer token.
type UserVO struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

func NewUserVO(u *entity.User, token string) UserVO {
	return UserVO{Email: u.Email, Token: token, Username: u.Username, Bio: u.Bio, Image: u.Image}
}
