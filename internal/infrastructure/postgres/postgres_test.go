package postgres

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

// openTestDB connects to TEST_DATABASE_URL and applies the migrations; the
// test is skipped when the variable is unset.
func openTestDB(t *testing.T) (*UserRepository, *ArticleRepository, *CommentRepository, *TagRepository, *TxManager) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, Migrate(dsn, "../../../db/migrations", logger))

	return NewUserRepository(pool), NewArticleRepository(pool), NewCommentRepository(pool),
		NewTagRepository(pool), NewTxManager(pool)
}

func newUser(t *testing.T, users *UserRepository, prefix string) *entity.User {
	t.Helper()
	name := prefix + "-" + uuid.NewString()[:8]
	u := &entity.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestPostgresUsersAndFollows(t *testing.T) {
	users, _, _, _, _ := openTestDB(t)
	ctx := context.Background()

	jake := newUser(t, users, "jake")
	anna := newUser(t, users, "anna")
	assert.NotZero(t, jake.ID)

	dup := &entity.User{Username: jake.Username, Email: "other-" + jake.Email, Password: "hash"}
	assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrDuplicate)

	ok, err := users.ExistsByEmail(ctx, jake.Email)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, users.Follow(ctx, jake.ID, anna.ID))
	require.NoError(t, users.Follow(ctx, jake.ID, anna.ID))
	got, err := users.FindByUsername(ctx, jake.Username)
	require.NoError(t, err)
	assert.True(t, got.IsFollowing(anna))

	require.NoError(t, users.Unfollow(ctx, jake.ID, anna.ID))
	got, err = users.FindByID(ctx, jake.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFollowing(anna))

	_, err = users.FindByEmail(ctx, "missing-"+uuid.NewString()+"@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresArticlesCommentsAndTags(t *testing.T) {
	users, articles, comments, tags, _ := openTestDB(t)
	ctx := context.Background()

	author := newUser(t, users, "author")
	fan := newUser(t, users, "fan")
	tag := "tag-" + uuid.NewString()[:8]

	a := entity.NewArticle(author, "Postgres "+uuid.NewString(), "d", "b", []string{tag, "golang"})
	_, err := tags.SaveAll(ctx, a.Tags)
	require.NoError(t, err)
	require.NoError(t, articles.Create(ctx, a))

	again := entity.NewArticle(author, a.Title, "d", "b", nil)
	assert.ErrorIs(t, articles.Create(ctx, again), repository.ErrDuplicate)

	require.NoError(t, articles.Favorite(ctx, a.ID, fan.ID))
	found, total, err := articles.FindByFacets(ctx, repository.ArticleFacets{Tag: tag, Favorited: fan.Username})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, a.Slug, found[0].Slug)
	assert.Equal(t, 1, found[0].FavoritesCount())
	assert.Contains(t, found[0].Tags, tag)

	c := entity.NewComment(fan, a, "nice")
	require.NoError(t, comments.Create(ctx, c))
	list, err := comments.FindByArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fan.Username, list[0].Author.Username)

	require.NoError(t, articles.Delete(ctx, a))
	_, err = articles.FindBySlug(ctx, a.Slug)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = comments.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresTxRollback(t *testing.T) {
	users, _, _, _, tx := openTestDB(t)
	ctx := context.Background()
	name := "rollback-" + uuid.NewString()[:8]
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		u := &entity.User{Username: name, Email: name + "@example.com", Password: "hash"}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = users.FindByUsername(ctx, name)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
