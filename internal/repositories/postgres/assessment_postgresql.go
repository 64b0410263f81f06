package postgres

import (
	"context"
	"fmt"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	return translateWriteError(getDB(ctx, a.db, tx).Create(assessment).Error, "create assessment")
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := getDB(ctx, a.db, tx).Where("id = ?", id).First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AssessmentFilters) ([]*models.Assessment, error) {
	query := getDB(ctx, a.db, tx).Where("user_id = ?", userID)

	if filters.Subject != "" {
		query = query.Where("subject = ?", filters.Subject)
	}
	if filters.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filters.IsCompleted)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var assessments []*models.Assessment
	if err := query.Order("created_at DESC").Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) MarkCompleted(ctx context.Context, tx *gorm.DB, id string, completion repositories.Completion) error {
	result := getDB(ctx, a.db, tx).
		Model(&models.Assessment{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"user_answers": datatypes.JSONSlice[int](completion.UserAnswers),
			"score":        completion.Score,
			"is_completed": true,
			"completed_at": completion.CompletedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark assessment completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrAlreadyCompleted
	}
	return nil
}
