package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/vo"
	"github.com/oksasatya/go-ddd-realworld/internal/metrics"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer/templates"
)

// ArticleService owns articles, their comments and favorites. Viewer IDs of 0
// stand for anonymous callers. Index, Redis and Notifier are optional.
type ArticleService struct {
	Users    repo.UserRepository
	Articles repo.ArticleRepository
	Comments repo.CommentRepository
	Tags     repo.TagRepository
	Tx       repo.Transactor
	Index    ArticleIndex
	Redis    *redis.Client
	Notifier JobPublisher
	Logger   *logrus.Logger
}

type ArticleList struct {
	Articles      []vo.ArticleVO `json:"articles"`
	ArticlesCount int            `json:"articlesCount"`
}

type CreateArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// UpdateArticleInput fields left blank keep their current value.
type UpdateArticleInput struct {
	Title       string
	Description string
	Body        string
}

func (s *ArticleService) GetSingleArticle(ctx context.Context, viewerID int64, slug string) (vo.ArticleVO, error) {
	var out vo.ArticleVO
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := optionalViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		a, err := s.findArticle(ctx, slug)
		if err != nil {
			return err
		}
		out = vo.NewArticleVO(viewer, a)
		return nil
	})
	return out, err
}

func (s *ArticleService) GetArticles(ctx context.Context, viewerID int64, f repo.ArticleFacets) (ArticleList, error) {
	var out ArticleList
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := optionalViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		articles, total, err := s.Articles.FindByFacets(ctx, f.Normalized())
		if err != nil {
			return err
		}
		out = ArticleList{Articles: vo.NewArticleVOs(viewer, articles), ArticlesCount: total}
		return nil
	})
	return out, err
}

// GetFeedArticles lists articles written by the users the viewer follows,
// newest first. Only pagination is taken from f.
func (s *ArticleService) GetFeedArticles(ctx context.Context, viewerID int64, f repo.ArticleFacets) (ArticleList, error) {
	out := ArticleList{Articles: []vo.ArticleVO{}}
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := requireViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		if viewer.Followings.Len() == 0 {
			return nil
		}
		f = f.Normalized()
		articles, total, err := s.Articles.FindByAuthorIDs(ctx, viewer.Followings.Slice(), f.Limit, f.Offset)
		if err != nil {
			return err
		}
		out = ArticleList{Articles: vo.NewArticleVOs(viewer, articles), ArticlesCount: total}
		return nil
	})
	return out, err
}

func (s *ArticleService) CreateArticle(ctx context.Context, viewerID int64, in CreateArticleInput) (vo.ArticleVO, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return vo.ArticleVO{}, fmt.Errorf("title and body are required: %w", ErrInvalid)
	}
	var a *entity.Article
	var viewer *entity.User
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if viewer, err = requireViewer(ctx, s.Users, viewerID); err != nil {
			return err
		}
		a = entity.NewArticle(viewer, in.Title, in.Description, in.Body, in.TagList)
		if a.Slug == "" {
			return fmt.Errorf("title %q yields an empty slug: %w", in.Title, ErrInvalid)
		}
		if _, err := s.Tags.SaveAll(ctx, a.Tags); err != nil {
			return err
		}
		return conflict(s.Articles.Create(ctx, a), fmt.Sprintf("article %q", a.Slug))
	})
	if err != nil {
		return vo.ArticleVO{}, err
	}

	s.index(ctx, a)
	if len(a.Tags) > 0 {
		s.invalidateTags(ctx)
	}
	return vo.NewArticleVO(viewer, a), nil
}

// UpdateArticle is restricted to the author, like deletion.
func (s *ArticleService) UpdateArticle(ctx context.Context, viewerID int64, slug string, in UpdateArticleInput) (vo.ArticleVO, error) {
	var a *entity.Article
	var viewer *entity.User
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if viewer, err = requireViewer(ctx, s.Users, viewerID); err != nil {
			return err
		}
		if a, err = s.findArticle(ctx, slug); err != nil {
			return err
		}
		if !a.IsAuthoredBy(viewer) {
			return fmt.Errorf("article %q is not yours to edit: %w", slug, ErrForbidden)
		}
		a.Update(in.Title, in.Description, in.Body)
		if a.Slug == "" {
			return fmt.Errorf("title %q yields an empty slug: %w", in.Title, ErrInvalid)
		}
		return conflict(s.Articles.Update(ctx, a), fmt.Sprintf("article %q", a.Slug))
	})
	if err != nil {
		return vo.ArticleVO{}, err
	}

	s.index(ctx, a)
	return vo.NewArticleVO(viewer, a), nil
}

func (s *ArticleService) DeleteArticle(ctx context.Context, viewerID int64, slug string) error {
	var a *entity.Article
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		viewer, err := requireViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		if a, err = s.findArticle(ctx, slug); err != nil {
			return err
		}
		if !a.IsAuthoredBy(viewer) {
			return fmt.Errorf("article %q is not yours to delete: %w", slug, ErrForbidden)
		}
		return notFound(s.Articles.Delete(ctx, a), fmt.Sprintf("article %q", slug))
	})
	if err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, a.ID); err != nil {
			metrics.RecordSideEffectFailure("index")
			helpers.LogWarn(s.Logger, "remove article from search index failed", err, logrus.Fields{"slug": slug})
		}
	}
	if len(a.Tags) > 0 {
		s.invalidateTags(ctx)
	}
	return nil
}

func (s *ArticleService) CreateComment(ctx context.Context, viewerID int64, slug, body string) (vo.CommentVO, error) {
	if strings.TrimSpace(body) == "" {
		return vo.CommentVO{}, fmt.Errorf("comment body is required: %w", ErrInvalid)
	}
	var (
		viewer *entity.User
		a      *entity.Article
		c      *entity.Comment
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if viewer, err = requireViewer(ctx, s.Users, viewerID); err != nil {
			return err
		}
		if a, err = s.findArticle(ctx, slug); err != nil {
			return err
		}
		c = entity.NewComment(viewer, a, body)
		return s.Comments.Create(ctx, c)
	})
	if err != nil {
		return vo.CommentVO{}, err
	}

	if !a.IsAuthoredBy(viewer) {
		enqueue(ctx, s.Notifier, s.Logger, mailer.EmailJob{
			To:       a.Author.Email,
			Template: templates.NewComment,
			Data: map[string]any{
				"Name":         a.Author.Username,
				"Commenter":    viewer.Username,
				"ArticleTitle": a.Title,
				"Slug":         a.Slug,
				"Body":         c.Body,
			},
		})
	}
	return vo.NewCommentVO(viewer, c), nil
}

func (s *ArticleService) GetArticleComments(ctx context.Context, viewerID int64, slug string) ([]vo.CommentVO, error) {
	out := []vo.CommentVO{}
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := optionalViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		a, err := s.findArticle(ctx, slug)
		if err != nil {
			return err
		}
		comments, err := s.Comments.FindByArticle(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, c := range comments {
			out = append(out, vo.NewCommentVO(viewer, c))
		}
		return nil
	})
	return out, err
}

func (s *ArticleService) DeleteComment(ctx context.Context, viewerID, commentID int64) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		viewer, err := requireViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		c, err := s.Comments.FindByID(ctx, commentID)
		if err != nil {
			return notFound(err, fmt.Sprintf("comment %d", commentID))
		}
		if !c.IsAuthoredBy(viewer) {
			return fmt.Errorf("comment %d is not yours to delete: %w", commentID, ErrForbidden)
		}
		return notFound(s.Comments.Delete(ctx, c), fmt.Sprintf("comment %d", commentID))
	})
}

func (s *ArticleService) FavoriteArticle(ctx context.Context, viewerID int64, slug string) (vo.ArticleVO, error) {
	return s.toggleFavorite(ctx, viewerID, slug, true)
}

func (s *ArticleService) UnfavoriteArticle(ctx context.Context, viewerID int64, slug string) (vo.ArticleVO, error) {
	return s.toggleFavorite(ctx, viewerID, slug, false)
}

func (s *ArticleService) toggleFavorite(ctx context.Context, viewerID int64, slug string, favorite bool) (vo.ArticleVO, error) {
	var out vo.ArticleVO
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		viewer, err := requireViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		a, err := s.findArticle(ctx, slug)
		if err != nil {
			return err
		}
		if favorite {
			a.FavoritedByUser(viewer)
			err = s.Articles.Favorite(ctx, a.ID, viewer.ID)
		} else {
			a.UnfavoritedByUser(viewer)
			err = s.Articles.Unfavorite(ctx, a.ID, viewer.ID)
		}
		if err != nil {
			return err
		}
		out = vo.NewArticleVO(viewer, a)
		return nil
	})
	return out, err
}

// SearchArticles runs query against the search index and loads the hits in
// ranking order. Without an index the result is always empty.
func (s *ArticleService) SearchArticles(ctx context.Context, viewerID int64, query string, limit int) (ArticleList, error) {
	out := ArticleList{Articles: []vo.ArticleVO{}}
	query = strings.TrimSpace(query)
	if s.Index == nil || query == "" {
		return out, nil
	}
	limit = repo.ArticleFacets{Limit: limit}.Normalized().Limit
	slugs, err := s.Index.Search(ctx, query, limit)
	if err != nil {
		return out, fmt.Errorf("search articles: %w", err)
	}
	err = s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := optionalViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		articles, err := s.Articles.FindBySlugs(ctx, slugs)
		if err != nil {
			return err
		}
		out = ArticleList{Articles: vo.NewArticleVOs(viewer, articles), ArticlesCount: len(articles)}
		return nil
	})
	return out, err
}

func (s *ArticleService) findArticle(ctx context.Context, slug string) (*entity.Article, error) {
	a, err := s.Articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("article %q", slug))
	}
	return a, nil
}

func (s *ArticleService) index(ctx context.Context, a *entity.Article) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, a); err != nil {
		metrics.RecordSideEffectFailure("index")
		helpers.LogWarn(s.Logger, "index article failed", err, logrus.Fields{"slug": a.Slug})
	}
}

func (s *ArticleService) invalidateTags(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, TagsCacheKey); err != nil {
		metrics.RecordSideEffectFailure("cache")
		helpers.LogWarn(s.Logger, "invalidate tag cache failed", err, nil)
	}
}
