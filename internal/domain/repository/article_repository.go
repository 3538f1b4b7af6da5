package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ArticleFacets bundles the optional listing filters with pagination.
// Empty strings mean "no filter".
type ArticleFacets struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// Normalized clamps Limit into (0, MaxPageLimit] and Offset to >= 0.
func (f ArticleFacets) Normalized() ArticleFacets {
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ArticleRepository persists articles together with their tag links and
// favorite set. Listings are ordered newest first with ID as tie-break.
type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	FindBySlug(ctx context.Context, slug string) (*entity.Article, error)
	// FindBySlugs returns the articles found, in the order of slugs.
	FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error)
	FindByFacets(ctx context.Context, f ArticleFacets) ([]*entity.Article, int, error)
	FindByAuthorIDs(ctx context.Context, authorIDs []int64, limit, offset int) ([]*entity.Article, int, error)
	Update(ctx context.Context, a *entity.Article) error
	// Delete removes the article with its comments, favorites and tag links.
	Delete(ctx context.Context, a *entity.Article) error
	Favorite(ctx context.Context, articleID, userID int64) error
	Unfavorite(ctx context.Context, articleID, userID int64) error
}
