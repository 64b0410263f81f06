package repositories

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"gorm.io/gorm"
)

type FileUploadRepository interface {
	Create(ctx context.Context, tx *gorm.DB, upload *models.FileUpload) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.FileUpload, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.FileUpload, error)
}

type RevisionGuideRepository interface {
	Create(ctx context.Context, tx *gorm.DB, guide *models.RevisionGuide) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.RevisionGuide, error)
}
