package entity

import (
	"errors"
	"time"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

// User is the aggregate root for accounts and their outgoing follow edges.
// Password holds a bcrypt hash, never the plain text.
type User struct {
	ID         int64
	Email      string
	Username   string
	Password   string
	Bio        string
	Image      string
	Followings IDSet
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserUpdate carries a partial profile edit. Empty fields are left untouched.
type UserUpdate struct {
	Email    string
	Username string
	Password string
	Bio      string
	Image    string
}

// Is reports identity with other by ID.
func (u *User) Is(other *User) bool {
	return u != nil && other != nil && u.ID == other.ID
}

func (u *User) Follow(target *User) error {
	if u.Is(target) {
		return ErrSelfFollow
	}
	u.Followings.Add(target.ID)
	return nil
}

func (u *User) Unfollow(target *User) {
	u.Followings.Remove(target.ID)
}

// IsFollowing is nil-safe: an anonymous viewer follows nobody.
func (u *User) IsFollowing(target *User) bool {
	if u == nil || target == nil {
		return false
	}
	return u.Followings.Has(target.ID)
}

func (u *User) Update(in UserUpdate) {
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Password != "" {
		u.Password = in.Password
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.Image != "" {
		u.Image = in.Image
	}
}
