package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-realworld/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/internal/domain/vo"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
	"github.com/oksasatya/go-ddd-realworld/pkg/mailer/templates"
)

type ProfileService struct {
	Users    repo.UserRepository
	Tx       repo.Transactor
	Notifier JobPublisher
	AppName  string
	Logger   *logrus.Logger
}

func (s *ProfileService) GetProfile(ctx context.Context, viewerID int64, username string) (vo.ProfileVO, error) {
	var out vo.ProfileVO
	err := s.Tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		viewer, err := optionalViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		target, err := s.findUser(ctx, username)
		if err != nil {
			return err
		}
		out = vo.NewProfileVO(viewer, target)
		return nil
	})
	return out, err
}

// Follow is idempotent. Only a newly created edge notifies the target.
func (s *ProfileService) Follow(ctx context.Context, viewerID int64, username string) (vo.ProfileVO, error) {
	var (
		out          vo.ProfileVO
		viewer       *entity.User
		target       *entity.User
		wasFollowing bool
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if viewer, err = requireViewer(ctx, s.Users, viewerID); err != nil {
			return err
		}
		if target, err = s.findUser(ctx, username); err != nil {
			return err
		}
		wasFollowing = viewer.IsFollowing(target)
		if err := viewer.Follow(target); err != nil {
			if errors.Is(err, entity.ErrSelfFollow) {
				return fmt.Errorf("%s: %w", err.Error(), ErrInvalid)
			}
			return err
		}
		if err := s.Users.Follow(ctx, viewer.ID, target.ID); err != nil {
			return err
		}
		out = vo.NewProfileVO(viewer, target)
		return nil
	})
	if err != nil {
		return vo.ProfileVO{}, err
	}

	if !wasFollowing {
		enqueue(ctx, s.Notifier, s.Logger, mailer.EmailJob{
			To:       target.Email,
			Template: templates.NewFollower,
			Data: map[string]any{
				"Name":     target.Username,
				"Follower": viewer.Username,
				"AppName":  s.AppName,
			},
		})
	}
	return out, nil
}

func (s *ProfileService) Unfollow(ctx context.Context, viewerID int64, username string) (vo.ProfileVO, error) {
	var out vo.ProfileVO
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		viewer, err := requireViewer(ctx, s.Users, viewerID)
		if err != nil {
			return err
		}
		target, err := s.findUser(ctx, username)
		if err != nil {
			return err
		}
		viewer.Unfollow(target)
		if err := s.Users.Unfollow(ctx, viewer.ID, target.ID); err != nil {
			return err
		}
		out = vo.NewProfileVO(viewer, target)
		return nil
	})
	return out, err
}

func (s *ProfileService) findUser(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("profile %q", username))
	}
	return u, nil
}
