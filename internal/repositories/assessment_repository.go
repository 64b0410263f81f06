package repositories

import (
	"context"
	"time"

	"github.com/studyswaps/learning-service/internal/models"
	"gorm.io/gorm"
)

// Completion carries the values written when an assessment is submitted
type Completion struct {
	UserAnswers []int
	Score       float64
	CompletedAt time.Time
}

// AssessmentRepository persists generated assessments
type AssessmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assessment, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters AssessmentFilters) ([]*models.Assessment, error)

	// MarkCompleted sets answers, score and completion only while the row is still open.
	// It returns ErrAlreadyCompleted when no open row matched.
	MarkCompleted(ctx context.Context, tx *gorm.DB, id string, completion Completion) error
}
