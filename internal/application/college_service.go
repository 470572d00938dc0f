package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/campus-connect/internal/domain/repository"
	"github.com/oksasatya/campus-connect/pkg/helpers"
)

const (
	approvedCollegesKey = "colleges:approved"
	approvedCollegesTTL = 5 * time.Minute
)

// CollegeService serves the signup college picker. Redis is an optional
// read-through cache; any cache error falls back to the store.
type CollegeService struct {
	Colleges repo.CollegeRepository
	Cache    redis.Cmdable
	Logger   *logrus.Logger
}

func NewCollegeService(colleges repo.CollegeRepository, cache redis.Cmdable, logger *logrus.Logger) *CollegeService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &CollegeService{Colleges: colleges, Cache: cache, Logger: logger}
}

func (s *CollegeService) ListApproved(ctx context.Context) ([]CollegeOption, error) {
	if s.Cache != nil {
		var cached []CollegeOption
		ok, err := helpers.RedisGetJSON(ctx, s.Cache, approvedCollegesKey, &cached)
		if err != nil {
			s.Logger.WithError(err).Warn("college cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	list, err := s.Colleges.ListApproved(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("list approved colleges failed")
		return nil, DependencyError(MsgInternal, err)
	}
	out := make([]CollegeOption, 0, len(list))
	for _, c := range list {
		out = append(out, CollegeOption{ID: c.ID, Name: c.Name, EmailDomain: c.EmailDomain})
	}

	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, approvedCollegesKey, out, approvedCollegesTTL); err != nil {
			s.Logger.WithError(err).Warn("college cache write failed")
		}
	}
	return out, nil
}
