package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type ArticleRepository struct {
	s *Store
}

// slugTaken must be called with mu held.
func (r *ArticleRepository) slugTaken(slug string, except int64) bool {
	for id, row := range r.s.st.articles {
		if id != except && row.Slug == slug {
			return true
		}
	}
	return false
}

func (r *ArticleRepository) Create(_ context.Context, a *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(a.Slug, 0) {
		return repository.ErrDuplicate
	}
	r.s.st.nextArticle++
	a.ID = r.s.st.nextArticle
	a.CreatedAt = r.s.tick()
	a.UpdatedAt = a.CreatedAt

	r.s.st.articles[a.ID] = articleRow{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Body,
		AuthorID:    a.Author.ID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	var linked []string
	for _, name := range entity.NormalizeTags(a.Tags) {
		if _, ok := r.s.st.tags[name]; ok {
			linked = append(linked, name)
		}
	}
	r.s.st.articleTags[a.ID] = linked
	r.s.st.favorites[a.ID] = a.FavoritedBy.Clone()
	return nil
}

func (r *ArticleRepository) FindBySlug(_ context.Context, slug string) (*entity.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.st.articles {
		if row.Slug == slug {
			return r.s.article(row), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ArticleRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error) {
	out := make([]*entity.Article, 0, len(slugs))
	for _, slug := range slugs {
		a, err := r.FindBySlug(ctx, slug)
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// page must be called with mu held.
func (r *ArticleRepository) page(match func(articleRow) bool, limit, offset int) ([]*entity.Article, int) {
	rows := make([]articleRow, 0)
	for _, row := range r.s.st.articles {
		if match(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	total := len(rows)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*entity.Article, 0, end-offset)
	for _, row := range rows[offset:end] {
		out = append(out, r.s.article(row))
	}
	return out, total
}

func (r *ArticleRepository) userIDByName(username string) (int64, bool) {
	for id, u := range r.s.st.users {
		if u.Username == username {
			return id, true
		}
	}
	return 0, false
}

func (r *ArticleRepository) FindByFacets(_ context.Context, f repository.ArticleFacets) ([]*entity.Article, int, error) {
	f = f.Normalized()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	authorID, authorOK := r.userIDByName(f.Author)
	favID, favOK := r.userIDByName(f.Favorited)
	match := func(row articleRow) bool {
		if f.Tag != "" && !contains(r.s.st.articleTags[row.ID], f.Tag) {
			return false
		}
		if f.Author != "" && (!authorOK || row.AuthorID != authorID) {
			return false
		}
		if f.Favorited != "" {
			favs := r.s.st.favorites[row.ID]
			if !favOK || !favs.Has(favID) {
				return false
			}
		}
		return true
	}
	articles, total := r.page(match, f.Limit, f.Offset)
	return articles, total, nil
}

func (r *ArticleRepository) FindByAuthorIDs(_ context.Context, authorIDs []int64, limit, offset int) ([]*entity.Article, int, error) {
	authors := entity.NewIDSet(authorIDs...)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	articles, total := r.page(func(row articleRow) bool { return authors.Has(row.AuthorID) }, limit, offset)
	return articles, total, nil
}

func (r *ArticleRepository) Update(_ context.Context, a *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.st.articles[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(a.Slug, a.ID) {
		return repository.ErrDuplicate
	}
	row.Slug, row.Title, row.Description, row.Body = a.Slug, a.Title, a.Description, a.Body
	row.UpdatedAt = r.s.tick()
	a.UpdatedAt = row.UpdatedAt
	r.s.st.articles[a.ID] = row
	return nil
}

func (r *ArticleRepository) Delete(_ context.Context, a *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.articles[a.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.st.articles, a.ID)
	delete(r.s.st.articleTags, a.ID)
	delete(r.s.st.favorites, a.ID)
	for id, c := range r.s.st.comments {
		if c.ArticleID == a.ID {
			delete(r.s.st.comments, id)
		}
	}
	return nil
}

func (r *ArticleRepository) Favorite(_ context.Context, articleID, userID int64) error {
	return r.toggle(articleID, func(set *entity.IDSet) { set.Add(userID) })
}

func (r *ArticleRepository) Unfavorite(_ context.Context, articleID, userID int64) error {
	return r.toggle(articleID, func(set *entity.IDSet) { set.Remove(userID) })
}

func (r *ArticleRepository) toggle(articleID int64, fn func(*entity.IDSet)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.articles[articleID]; !ok {
		return repository.ErrNotFound
	}
	set := r.s.st.favorites[articleID]
	fn(&set)
	r.s.st.favorites[articleID] = set
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)
