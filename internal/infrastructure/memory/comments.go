package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) comment(row commentRow) *entity.Comment {
	author, ok := r.s.user(row.AuthorID)
	if !ok {
		author = &entity.User{ID: row.AuthorID}
	}
	return &entity.Comment{
		ID:        row.ID,
		Body:      row.Body,
		Author:    author,
		ArticleID: row.ArticleID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *CommentRepository) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.articles[c.ArticleID]; !ok {
		return repository.ErrNotFound
	}
	r.s.st.nextComment++
	c.ID = r.s.st.nextComment
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.st.comments[c.ID] = commentRow{
		ID:        c.ID,
		Body:      c.Body,
		ArticleID: c.ArticleID,
		AuthorID:  c.Author.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	return nil
}

func (r *CommentRepository) FindByID(_ context.Context, id int64) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.st.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.comment(row), nil
}

func (r *CommentRepository) FindByArticle(_ context.Context, articleID int64) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]commentRow, 0)
	for _, row := range r.s.st.comments {
		if row.ArticleID == articleID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	out := make([]*entity.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.comment(row))
	}
	return out, nil
}

func (r *CommentRepository) Delete(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.comments[c.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.comments, c.ID)
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
