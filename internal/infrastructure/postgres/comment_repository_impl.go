package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

const commentSelect = `
	SELECT c.id, c.body, c.article_id, c.created_at, c.updated_at,
	       u.id, u.email, u.username, u.bio, u.image, u.created_at, u.updated_at
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{Author: &entity.User{}}
	if err := row.Scan(&c.ID, &c.Body, &c.ArticleID, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.Email, &c.Author.Username, &c.Author.Bio, &c.Author.Image,
		&c.Author.CreatedAt, &c.Author.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO comments (body, article_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.Body, c.ArticleID, c.Author.ID)
	return translate(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*entity.Comment, error) {
	c, err := scanComment(querier(ctx, r.pool).QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *CommentRepository) FindByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		commentSelect+` WHERE c.article_id = $1 ORDER BY c.created_at DESC, c.id DESC`, articleID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]*entity.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, c)
	}
	return out, translate(rows.Err())
}

func (r *CommentRepository) Delete(ctx context.Context, c *entity.Comment) error {
	tag, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM comments WHERE id = $1`, c.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
