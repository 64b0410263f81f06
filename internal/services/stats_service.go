package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
)

// StatsCacheTTL bounds how long a cached stats entry lives
const StatsCacheTTL = 5 * time.Minute

type statsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewStatsService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func statsCacheKey(userID string) string {
	return "stats:" + userID
}

// GetStats returns zeros for a user who has not completed anything yet.
// Cache entries are versioned by AssessmentsCompleted, so a read that raced a
// submission never replaces the entry RecordStats wrote after commit.
func (s *statsService) GetStats(ctx context.Context, userID string) (*StatsResponse, error) {
	var cached StatsResponse
	err := s.cache.Get(ctx, statsCacheKey(userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "Stats cache read failed", "user_id", userID, "error", err)
	}

	row, err := s.repo.UserStats().Get(ctx, nil, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, storeError("load user stats", err)
	}
	stats := toStatsResponse(row)
	s.storeStats(ctx, userID, stats)
	return &stats, nil
}

func (s *statsService) RecordStats(ctx context.Context, row *models.UserStats) {
	s.storeStats(ctx, row.UserID, toStatsResponse(row))
}

func (s *statsService) storeStats(ctx context.Context, userID string, stats StatsResponse) {
	stored, err := s.cache.SetIfNewer(ctx, statsCacheKey(userID), stats, int64(stats.AssessmentsCompleted), StatsCacheTTL)
	if err == nil {
		if !stored {
			s.logger.DebugContext(ctx, "Skipped caching superseded stats", "user_id", userID,
				"assessments_completed", stats.AssessmentsCompleted)
		}
		return
	}

	s.logger.WarnContext(ctx, "Stats cache write failed", "user_id", userID, "error", err)
	// an entry we could not replace must not outlive the write
	if err := s.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		s.logger.WarnContext(ctx, "Stats cache invalidation failed", "user_id", userID, "error", err)
	}
}

// ListChildren is restricted to parents; children come back oldest first with their stats
func (s *statsService) ListChildren(ctx context.Context, parentID string) ([]*ChildOverview, error) {
	parent, err := s.repo.User().GetByID(ctx, nil, parentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("load user", err)
	}
	if parent.Role != models.RoleParent {
		return nil, NewPermissionError(parentID, parentID, "children", "list", "only parents have child accounts")
	}

	children, err := s.repo.User().ListChildren(ctx, nil, parentID)
	if err != nil {
		return nil, storeError("list children", err)
	}

	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	stats, err := s.repo.UserStats().GetMany(ctx, nil, ids)
	if err != nil {
		return nil, storeError("load children stats", err)
	}

	out := make([]*ChildOverview, len(children))
	for i, c := range children {
		out[i] = &ChildOverview{
			User:  c,
			Stats: toStatsResponse(stats[c.ID]),
		}
	}
	return out, nil
}
