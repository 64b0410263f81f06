package postgres

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return translateWriteError(getDB(ctx, u.db, tx).Create(user).Error, "create user")
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := getDB(ctx, u.db, tx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := getDB(ctx, u.db, tx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := getDB(ctx, u.db, tx).Where("student_username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) ListChildren(ctx context.Context, tx *gorm.DB, parentID string) ([]*models.User, error) {
	var children []*models.User
	err := getDB(ctx, u.db, tx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, first_name ASC").
		Find(&children).Error
	return children, err
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := getDB(ctx, u.db, tx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	err := getDB(ctx, u.db, tx).Model(&models.User{}).Where("student_username = ?", username).Count(&count).Error
	return count > 0, err
}
