package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	FindByID(ctx context.Context, id int64) (*entity.Comment, error)
	// FindByArticle lists comments newest first.
	FindByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error)
	Delete(ctx context.Context, c *entity.Comment) error
}
