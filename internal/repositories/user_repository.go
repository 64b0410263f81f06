package repositories

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the credential store for parents, children and teachers
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ListChildren(ctx context.Context, tx *gorm.DB, parentID string) ([]*models.User, error)

	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)
}
