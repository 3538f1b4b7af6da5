package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type TagRepository struct {
	s *Store
}

func (r *TagRepository) SaveAll(_ context.Context, names []string) ([]entity.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	names = entity.NormalizeTags(names)
	out := make([]entity.Tag, 0, len(names))
	for _, name := range names {
		id, ok := r.s.st.tags[name]
		if !ok {
			r.s.st.nextTag++
			id = r.s.st.nextTag
			r.s.st.tags[name] = id
		}
		out = append(out, entity.Tag{ID: id, Name: name})
	}
	return out, nil
}

func (r *TagRepository) FindAll(_ context.Context) ([]entity.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Tag, 0, len(r.s.st.tags))
	for name, id := range r.s.st.tags {
		out = append(out, entity.Tag{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.TagRepository = (*TagRepository)(nil)
