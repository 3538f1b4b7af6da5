package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

// Error categories surfaced to the HTTP layer. Concrete errors wrap one of
// these, e.g. `article "hello": not found`.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid")

	ErrInvalidCredentials = fmt.Errorf("email or password is invalid: %w", ErrUnauthorized)
)

// notFound maps repository.ErrNotFound onto ErrNotFound for what; other
// errors pass through unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// conflict maps repository.ErrDuplicate onto ErrConflict for what.
func conflict(err error, what string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return err
}
