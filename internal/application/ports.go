package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

// ArticleIndex is the full-text search backend for articles.
type ArticleIndex interface {
	Index(ctx context.Context, a *entity.Article) error
	Remove(ctx context.Context, articleID int64) error
	// Search returns matching slugs, best match first.
	Search(ctx context.Context, query string, size int) ([]string, error)
}

// JobPublisher enqueues background jobs (notification emails).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ObjectUploader stores an uploaded file and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
