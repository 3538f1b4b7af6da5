package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello":                    "hello",
		"How to train your dragon": "how-to-train-your-dragon",
		"  Go -- is   fun!  ":      "go-is-fun",
		"Café au lait":             "cafe-au-lait",
		"C++ & Go 2024":            "c-go-2024",
		"???":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestIDSetIsIdempotent(t *testing.T) {
	var s IDSet
	assert.False(t, s.Has(1))
	assert.True(t, s.Add(1))
	assert.False(t, s.Add(1))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, 0, s.Len())

	s = NewIDSet(3, 1, 2, 3)
	assert.Equal(t, []int64{1, 2, 3}, s.Slice())

	c := s.Clone()
	c.Add(9)
	assert.False(t, s.Has(9))
}

func TestArticleUpdateOnlyOverwritesSuppliedFields(t *testing.T) {
	author := &User{ID: 1, Username: "jake"}
	a := NewArticle(author, "Hello", "d1", "b1", nil)
	require.Equal(t, "hello", a.Slug)

	a.Update("", "d2", "  ")
	assert.Equal(t, "Hello", a.Title)
	assert.Equal(t, "hello", a.Slug)
	assert.Equal(t, "d2", a.Description)
	assert.Equal(t, "b1", a.Body)

	a.Update("Hello Again", "", "")
	assert.Equal(t, "hello-again", a.Slug)
}

func TestArticleFavoriteToggle(t *testing.T) {
	author := &User{ID: 1}
	reader := &User{ID: 2}
	a := NewArticle(author, "t", "d", "b", []string{"go", "go", " ", "db"})
	assert.Equal(t, []string{"db", "go"}, a.Tags)

	a.FavoritedByUser(reader).FavoritedByUser(reader)
	assert.True(t, a.IsFavoritedBy(reader))
	assert.Equal(t, 1, a.FavoritesCount())

	a.UnfavoritedByUser(reader).UnfavoritedByUser(reader)
	assert.False(t, a.IsFavoritedBy(reader))
	assert.Equal(t, 0, a.FavoritesCount())
	assert.False(t, a.IsFavoritedBy(nil))
}

func TestAuthorship(t *testing.T) {
	author := &User{ID: 1}
	other := &User{ID: 2}
	a := NewArticle(author, "t", "d", "b", nil)
	a.ID = 10
	c := NewComment(author, a, "nice")

	assert.True(t, a.IsAuthoredBy(&User{ID: 1}))
	assert.False(t, a.IsAuthoredBy(other))
	assert.False(t, a.IsAuthoredBy(nil))
	assert.True(t, c.IsAuthoredBy(author))
	assert.False(t, c.IsAuthoredBy(other))
	assert.Equal(t, int64(10), c.ArticleID)
}

func TestFollow(t *testing.T) {
	me := &User{ID: 1}
	them := &User{ID: 2}

	require.NoError(t, me.Follow(them))
	require.NoError(t, me.Follow(them))
	assert.True(t, me.IsFollowing(them))
	assert.Equal(t, 1, me.Followings.Len())

	me.Unfollow(them)
	me.Unfollow(them)
	assert.False(t, me.IsFollowing(them))

	assert.ErrorIs(t, me.Follow(me), ErrSelfFollow)

	var anon *User
	assert.False(t, anon.IsFollowing(them))
}

func TestUserUpdateKeepsBlankFields(t *testing.T) {
	u := &User{Email: "a@b.c", Username: "a", Bio: "bio"}
	u.Update(UserUpdate{Bio: "new", Image: "http://img"})
	assert.Equal(t, "a@b.c", u.Email)
	assert.Equal(t, "a", u.Username)
	assert.Equal(t, "new", u.Bio)
	assert.Equal(t, "http://img", u.Image)
}
