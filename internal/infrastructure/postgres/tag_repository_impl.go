package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) SaveAll(ctx context.Context, names []string) ([]entity.Tag, error) {
	names = entity.NormalizeTags(names)
	if len(names) == 0 {
		return []entity.Tag{}, nil
	}
	q := querier(ctx, r.pool)
	if _, err := q.Exec(ctx, `
		INSERT INTO tags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`, names); err != nil {
		return nil, translate(err)
	}
	return r.collect(ctx, q, `SELECT id, name FROM tags WHERE name = ANY($1) ORDER BY name`, names)
}

func (r *TagRepository) FindAll(ctx context.Context) ([]entity.Tag, error) {
	return r.collect(ctx, querier(ctx, r.pool), `SELECT id, name FROM tags ORDER BY name`)
}

func (r *TagRepository) collect(ctx context.Context, q Queryer, sql string, args ...any) ([]entity.Tag, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Tag, error) {
		var t entity.Tag
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	})
	return tags, translate(err)
}

var _ repository.TagRepository = (*TagRepository)(nil)
