package postgres

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyswaps/learning-service/internal/models"
)

// newTestDB opens a private in-memory database with the service schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func strPtr(s string) *string { return &s }

func seedParent(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	parent := &models.User{
		Email:     strPtr(email),
		FirstName: "Grace",
		LastName:  "Hopper",
		Role:      models.RoleParent,
		IsActive:  true,
	}
	require.NoError(t, db.Create(parent).Error)
	return parent
}
