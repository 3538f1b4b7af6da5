package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Transactor runs fn inside one storage transaction. Repositories called with
// the ctx passed to fn join that transaction. A non-nil error from fn rolls
// everything back. Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}
