package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

// articleSelect loads an article with its author, sorted tag names and the
// IDs of users who favorited it.
const articleSelect = `
	SELECT a.id, a.slug, a.title, a.description, a.body, a.created_at, a.updated_at,
	       u.id, u.email, u.username, u.bio, u.image, u.created_at, u.updated_at,
	       COALESCE((SELECT array_agg(t.name ORDER BY t.name)
	                 FROM article_tags at JOIN tags t ON t.id = at.tag_id
	                 WHERE at.article_id = a.id), '{}'),
	       COALESCE((SELECT array_agg(f.user_id)
	                 FROM article_favorites f
	                 WHERE f.article_id = a.id), '{}')
	FROM articles a
	JOIN users u ON u.id = a.author_id
`

const facetsWhere = `
	WHERE ($1 = '' OR EXISTS (SELECT 1 FROM article_tags at JOIN tags t ON t.id = at.tag_id
	                          WHERE at.article_id = a.id AND t.name = $1))
	  AND ($2 = '' OR u.username = $2)
	  AND ($3 = '' OR EXISTS (SELECT 1 FROM article_favorites f JOIN users fu ON fu.id = f.user_id
	                          WHERE f.article_id = a.id AND fu.username = $3))
`

const newestFirst = ` ORDER BY a.created_at DESC, a.id DESC `

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	a := &entity.Article{Author: &entity.User{}}
	var favoritedBy []int64
	if err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.CreatedAt, &a.UpdatedAt,
		&a.Author.ID, &a.Author.Email, &a.Author.Username, &a.Author.Bio, &a.Author.Image,
		&a.Author.CreatedAt, &a.Author.UpdatedAt, &a.Tags, &favoritedBy); err != nil {
		return nil, err
	}
	a.FavoritedBy = entity.NewIDSet(favoritedBy...)
	return a, nil
}

func (r *ArticleRepository) list(ctx context.Context, sql string, args ...any) ([]*entity.Article, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]*entity.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, a)
	}
	return out, translate(rows.Err())
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	q := querier(ctx, r.pool)
	row := q.QueryRow(ctx, `
		INSERT INTO articles (slug, title, description, body, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.Slug, a.Title, a.Description, a.Body, a.Author.ID)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate(err)
	}
	if len(a.Tags) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		INSERT INTO article_tags (article_id, tag_id)
		SELECT $1, t.id FROM tags t WHERE t.name = ANY($2)
		ON CONFLICT DO NOTHING
	`, a.ID, a.Tags)
	return translate(err)
}

func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	a, err := scanArticle(querier(ctx, r.pool).QueryRow(ctx, articleSelect+` WHERE a.slug = $1`, slug))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *ArticleRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error) {
	if len(slugs) == 0 {
		return []*entity.Article{}, nil
	}
	found, err := r.list(ctx, articleSelect+` WHERE a.slug = ANY($1)`, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]*entity.Article, len(found))
	for _, a := range found {
		bySlug[a.Slug] = a
	}
	out := make([]*entity.Article, 0, len(found))
	for _, s := range slugs {
		if a, ok := bySlug[s]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *ArticleRepository) FindByFacets(ctx context.Context, f repository.ArticleFacets) ([]*entity.Article, int, error) {
	f = f.Normalized()
	var total int
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM articles a JOIN users u ON u.id = a.author_id`+facetsWhere,
		f.Tag, f.Author, f.Favorited,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}
	articles, err := r.list(ctx, articleSelect+facetsWhere+newestFirst+` LIMIT $4 OFFSET $5`,
		f.Tag, f.Author, f.Favorited, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticleRepository) FindByAuthorIDs(ctx context.Context, authorIDs []int64, limit, offset int) ([]*entity.Article, int, error) {
	if len(authorIDs) == 0 {
		return []*entity.Article{}, 0, nil
	}
	var total int
	if err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM articles WHERE author_id = ANY($1)`, authorIDs,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}
	articles, err := r.list(ctx, articleSelect+` WHERE a.author_id = ANY($1)`+newestFirst+` LIMIT $2 OFFSET $3`,
		authorIDs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *entity.Article) error {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE articles
		SET slug = $1, title = $2, description = $3, body = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, a.Slug, a.Title, a.Description, a.Body, a.ID)
	return translate(row.Scan(&a.UpdatedAt))
}

func (r *ArticleRepository) Delete(ctx context.Context, a *entity.Article) error {
	tag, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM articles WHERE id = $1`, a.ID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ArticleRepository) Favorite(ctx context.Context, articleID, userID int64) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO article_favorites (article_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, articleID, userID)
	return translate(err)
}

func (r *ArticleRepository) Unfavorite(ctx context.Context, articleID, userID int64) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		DELETE FROM article_favorites WHERE article_id = $1 AND user_id = $2
	`, articleID, userID)
	return translate(err)
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)
