package repositories

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"gorm.io/gorm"
)

// UserStatsRepository holds the per-user running aggregate
type UserStatsRepository interface {
	// Get returns the stored row, or gorm.ErrRecordNotFound
	Get(ctx context.Context, tx *gorm.DB, userID string) (*models.UserStats, error)
	GetMany(ctx context.Context, tx *gorm.DB, userIDs []string) (map[string]*models.UserStats, error)

	// GetForUpdate ensures a row exists (zero-valued when new) and locks it for the rest of tx
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*models.UserStats, error)
	Save(ctx context.Context, tx *gorm.DB, stats *models.UserStats) error
}
