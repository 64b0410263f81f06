package postgres

import (
	"context"
	"fmt"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStatsPostgreSQL struct {
	db *gorm.DB
}

func NewUserStatsPostgreSQL(db *gorm.DB) repositories.UserStatsRepository {
	return &UserStatsPostgreSQL{db: db}
}

func (s *UserStatsPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := getDB(ctx, s.db, tx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *UserStatsPostgreSQL) GetMany(ctx context.Context, tx *gorm.DB, userIDs []string) (map[string]*models.UserStats, error) {
	result := make(map[string]*models.UserStats, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []*models.UserStats
	if err := getDB(ctx, s.db, tx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	for _, row := range rows {
		result[row.UserID] = row
	}
	return result, nil
}

// GetForUpdate inserts an empty row if needed, then takes a row lock on it.
// The insert makes the lock work for a user's first submission too.
func (s *UserStatsPostgreSQL) GetForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*models.UserStats, error) {
	db := getDB(ctx, s.db, tx)

	seed := models.UserStats{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user stats: %w", err)
	}

	var stats models.UserStats
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to lock user stats: %w", err)
	}
	return &stats, nil
}

func (s *UserStatsPostgreSQL) Save(ctx context.Context, tx *gorm.DB, stats *models.UserStats) error {
	if err := getDB(ctx, s.db, tx).Save(stats).Error; err != nil {
		return fmt.Errorf("failed to save user stats: %w", err)
	}
	return nil
}
