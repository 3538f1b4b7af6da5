package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

// optionalViewer loads the caller, or returns nil for anonymous requests.
func optionalViewer(ctx context.Context, users repo.UserRepository, id int64) (*entity.User, error) {
	if id == 0 {
		return nil, nil
	}
	return requireViewer(ctx, users, id)
}

// requireViewer loads the caller. A token for a user that no longer exists
// is treated as unauthenticated.
func requireViewer(ctx context.Context, users repo.UserRepository, id int64) (*entity.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("authentication required: %w", ErrUnauthorized)
	}
	u, err := users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
