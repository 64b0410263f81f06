package postgres

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type FileUploadPostgreSQL struct {
	db *gorm.DB
}

func NewFileUploadPostgreSQL(db *gorm.DB) repositories.FileUploadRepository {
	return &FileUploadPostgreSQL{db: db}
}

func (f *FileUploadPostgreSQL) Create(ctx context.Context, tx *gorm.DB, upload *models.FileUpload) error {
	return translateWriteError(getDB(ctx, f.db, tx).Create(upload).Error, "create file upload")
}

func (f *FileUploadPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.FileUpload, error) {
	var upload models.FileUpload
	if err := getDB(ctx, f.db, tx).Where("id = ?", id).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

func (f *FileUploadPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.FileUpload, error) {
	var uploads []*models.FileUpload
	err := getDB(ctx, f.db, tx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	return uploads, err
}

type RevisionGuidePostgreSQL struct {
	db *gorm.DB
}

func NewRevisionGuidePostgreSQL(db *gorm.DB) repositories.RevisionGuideRepository {
	return &RevisionGuidePostgreSQL{db: db}
}

func (r *RevisionGuidePostgreSQL) Create(ctx context.Context, tx *gorm.DB, guide *models.RevisionGuide) error {
	return translateWriteError(getDB(ctx, r.db, tx).Create(guide).Error, "create revision guide")
}

func (r *RevisionGuidePostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.RevisionGuide, error) {
	var guides []*models.RevisionGuide
	err := getDB(ctx, r.db, tx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&guides).Error
	return guides, err
}
