// Package memory is an in-process implementation of the repositories. It
// backs the test suites and local runs with STORAGE_DRIVER=memory.
//
// Transactions are serialized with each other and roll back by restoring a
// snapshot taken when they began. Calls made outside WithinTx are not
// isolated from a running transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type articleRow struct {
	ID          int64
	Slug        string
	Title       string
	Description string
	Body        string
	AuthorID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type commentRow struct {
	ID        int64
	Body      string
	ArticleID int64
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type state struct {
	users       map[int64]entity.User
	follows     map[int64]entity.IDSet
	articles    map[int64]articleRow
	articleTags map[int64][]string
	favorites   map[int64]entity.IDSet
	comments    map[int64]commentRow
	tags        map[string]int64

	nextUser, nextArticle, nextComment, nextTag int64
	last                                        time.Time
}

func newState() *state {
	return &state{
		users:       map[int64]entity.User{},
		follows:     map[int64]entity.IDSet{},
		articles:    map[int64]articleRow{},
		articleTags: map[int64][]string{},
		favorites:   map[int64]entity.IDSet{},
		comments:    map[int64]commentRow{},
		tags:        map[string]int64{},
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.follows {
		c.follows[k] = v.Clone()
	}
	for k, v := range st.articles {
		c.articles[k] = v
	}
	for k, v := range st.articleTags {
		c.articleTags[k] = append([]string(nil), v...)
	}
	for k, v := range st.favorites {
		c.favorites[k] = v.Clone()
	}
	for k, v := range st.comments {
		c.comments[k] = v
	}
	for k, v := range st.tags {
		c.tags[k] = v
	}
	c.nextUser, c.nextArticle, c.nextComment, c.nextTag = st.nextUser, st.nextArticle, st.nextComment, st.nextTag
	c.last = st.last
	return c
}

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source. Timestamps stay strictly increasing
// regardless of what the clock returns.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// tick must be called with mu held.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.st.last) {
		t = s.st.last.Add(time.Microsecond)
	}
	s.st.last = t
	return t
}

type txKey struct{}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.WithinTx(ctx, fn)
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Articles() *ArticleRepository { return &ArticleRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }
func (s *Store) Tags() *TagRepository         { return &TagRepository{s: s} }

// user must be called with mu held.
func (s *Store) user(id int64) (*entity.User, bool) {
	u, ok := s.st.users[id]
	if !ok {
		return nil, false
	}
	follows := s.st.follows[id]
	u.Followings = follows.Clone()
	return &u, true
}

// article must be called with mu held.
func (s *Store) article(row articleRow) *entity.Article {
	author, ok := s.user(row.AuthorID)
	if !ok {
		author = &entity.User{ID: row.AuthorID}
	}
	tags := append([]string{}, s.st.articleTags[row.ID]...)
	favs := s.st.favorites[row.ID]
	return &entity.Article{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description,
		Body:        row.Body,
		Author:      author,
		Tags:        tags,
		FavoritedBy: favs.Clone(),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

var _ repository.Transactor = (*Store)(nil)
