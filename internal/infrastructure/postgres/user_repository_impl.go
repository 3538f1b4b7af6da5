package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

const userColumns = `id, email, username, password_hash, bio, image, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, bio, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Username, u.Password, u.Bio, u.Image)

	return translate(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) findOne(ctx context.Context, sql string, arg any) (*entity.User, error) {
	q := querier(ctx, r.pool)
	u := &entity.User{}
	if err := q.QueryRow(ctx, sql, arg).Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.Bio, &u.Image,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}

	var followees []int64
	if err := q.QueryRow(ctx, `
		SELECT COALESCE(array_agg(followee_id), '{}')
		FROM follows
		WHERE follower_id = $1
	`, u.ID).Scan(&followees); err != nil {
		return nil, translate(err)
	}
	u.Followings = entity.NewIDSet(followees...)
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) exists(ctx context.Context, sql string, arg any) (bool, error) {
	var ok bool
	if err := querier(ctx, r.pool).QueryRow(ctx, sql, arg).Scan(&ok); err != nil {
		return false, translate(err)
	}
	return ok, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, bio = $4, image = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, u.Email, u.Username, u.Password, u.Bio, u.Image, u.ID)

	return translate(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followeeID)
	return translate(err)
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	_, err := querier(ctx, r.pool).Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	return translate(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
