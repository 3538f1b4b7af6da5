package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

// taken must be called with mu held.
func (r *UserRepository) taken(u *entity.User) bool {
	for id, other := range r.s.st.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.Username == u.Username {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(u) {
		return repository.ErrDuplicate
	}
	r.s.st.nextUser++
	u.ID = r.s.st.nextUser
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt

	row := *u
	row.Followings = entity.IDSet{}
	r.s.st.users[u.ID] = row
	r.s.st.follows[u.ID] = u.Followings.Clone()
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.user(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) findBy(match func(entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.st.users {
		if match(u) {
			found, _ := r.s.user(id)
			return found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.taken(u) {
		return repository.ErrDuplicate
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = r.s.tick()

	row := *u
	row.Followings = entity.IDSet{}
	r.s.st.users[u.ID] = row
	return nil
}

func (r *UserRepository) Follow(_ context.Context, followerID, followeeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[followeeID]; !ok {
		return repository.ErrNotFound
	}
	set := r.s.st.follows[followerID]
	set.Add(followeeID)
	r.s.st.follows[followerID] = set
	return nil
}

func (r *UserRepository) Unfollow(_ context.Context, followerID, followeeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := r.s.st.follows[followerID]
	set.Remove(followeeID)
	r.s.st.follows[followerID] = set
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
