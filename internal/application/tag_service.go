package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-ddd-realworld/internal/domain/repository"
	"github.com/oksasatya/go-ddd-realworld/internal/metrics"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
)

const (
	TagsCacheKey = "tags:all"
	TagsCacheTTL = 5 * time.Minute
)

type TagService struct {
	Tags   repo.TagRepository
	Redis  *redis.Client
	Logger *logrus.Logger
}

// ListTags returns every tag name in ascending order. Redis errors fall back
// to the repository.
func (s *TagService) ListTags(ctx context.Context) ([]string, error) {
	if s.Redis != nil {
		var cached []string
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, TagsCacheKey, &cached)
		if err != nil {
			metrics.RecordSideEffectFailure("cache")
			helpers.LogWarn(s.Logger, "read tag cache failed", err, nil)
		} else if ok {
			return cached, nil
		}
	}

	tags, err := s.Tags.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, TagsCacheKey, names, TagsCacheTTL); err != nil {
			metrics.RecordSideEffectFailure("cache")
			helpers.LogWarn(s.Logger, "write tag cache failed", err, nil)
		}
	}
	return names, nil
}
