package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
)

type TagRepository interface {
	// SaveAll creates missing tags and returns all of names as stored tags.
	SaveAll(ctx context.Context, names []string) ([]entity.Tag, error)
	FindAll(ctx context.Context) ([]entity.Tag, error)
}
