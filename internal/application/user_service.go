package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/vo"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

// UserService handles accounts: registration, login sessions and the
// authenticated user's own profile.
type UserService struct {
	Users    repo.UserRepository
	Tx       repo.Transactor
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Uploader ObjectUploader
	Logger   *logrus.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (vo.UserVO, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return vo.UserVO{}, fmt.Errorf("%s: %w", err.Error(), ErrInvalid)
	}
	u := &entity.User{Username: in.Username, Email: strings.ToLower(in.Email), Password: hash}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAvailable(ctx, nil, u.Email, u.Username); err != nil {
			return err
		}
		return conflict(s.Users.Create(ctx, u), "user")
	})
	if err != nil {
		return vo.UserVO{}, err
	}
	return s.issue(ctx, u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (vo.UserVO, error) {
	var u *entity.User
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Users.FindByEmail(ctx, strings.ToLower(email))
		return err
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return vo.UserVO{}, ErrInvalidCredentials
		}
		return vo.UserVO{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return vo.UserVO{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Logout drops the Redis session so every token issued for it stops working.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(strconv.FormatInt(userID, 10)))
}

// Current echoes token back, as clients expect the user payload to carry it.
func (s *UserService) Current(ctx context.Context, userID int64, token string) (vo.UserVO, error) {
	var out vo.UserVO
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		u, err := requireViewer(ctx, s.Users, userID)
		if err != nil {
			return err
		}
		out = vo.NewUserVO(u, token)
		return nil
	})
	return out, err
}

func (s *UserService) Update(ctx context.Context, userID int64, token string, in entity.UserUpdate) (vo.UserVO, error) {
	in.Email = strings.ToLower(in.Email)
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return vo.UserVO{}, err
		}
		in.Password = hash
	}
	var out vo.UserVO
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := requireViewer(ctx, s.Users, userID)
		if err != nil {
			return err
		}
		if err := s.ensureAvailable(ctx, u, in.Email, in.Username); err != nil {
			return err
		}
		u.Update(in)
		if err := conflict(s.Users.Update(ctx, u), "user"); err != nil {
			return err
		}
		out = vo.NewUserVO(u, token)
		return nil
	})
	return out, err
}

// UploadImage stores the file under avatars/<id>/ and makes it the user's image.
func (s *UserService) UploadImage(ctx context.Context, userID int64, token string, r io.Reader, filename, contentType string) (vo.UserVO, error) {
	if s.Uploader == nil {
		return vo.UserVO{}, fmt.Errorf("image uploads are disabled: %w", ErrInvalid)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return vo.UserVO{}, fmt.Errorf("content type %q is not an image: %w", contentType, ErrInvalid)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("upload avatar failed")
		}
		return vo.UserVO{}, err
	}
	return s.Update(ctx, userID, token, entity.UserUpdate{Image: url})
}

// ensureAvailable rejects an email or username held by someone other than self.
func (s *UserService) ensureAvailable(ctx context.Context, self *entity.User, email, username string) error {
	if email != "" && (self == nil || email != self.Email) {
		taken, err := s.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %q: %w", email, ErrConflict)
		}
	}
	if username != "" && (self == nil || username != self.Username) {
		taken, err := s.Users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q: %w", username, ErrConflict)
		}
	}
	return nil
}

// issue signs a token for a fresh session and records the session in Redis.
func (s *UserService) issue(ctx context.Context, u *entity.User) (vo.UserVO, error) {
	sid := uuid.NewString()
	token, _, err := s.JWT.Generate(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return vo.UserVO{}, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(strconv.FormatInt(u.ID, 10))
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.JWT.TTL)
		if _, err := pipe.Exec(ctx); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Error("store session failed")
			}
			return vo.UserVO{}, err
		}
	}
	return vo.NewUserVO(u, token), nil
}
