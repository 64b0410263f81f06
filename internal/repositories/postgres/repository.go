package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studyswaps/learning-service/internal/repositories"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type repositoryManager struct {
	db *gorm.DB

	users     repositories.UserRepository
	assess    repositories.AssessmentRepository
	stats     repositories.UserStatsRepository
	uploads   repositories.FileUploadRepository
	revisions repositories.RevisionGuideRepository
}

// NewRepository wires every gorm-backed store around one connection pool
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repositoryManager{
		db:        db,
		users:     NewUserPostgreSQL(db),
		assess:    NewAssessmentPostgreSQL(db),
		stats:     NewUserStatsPostgreSQL(db),
		uploads:   NewFileUploadPostgreSQL(db),
		revisions: NewRevisionGuidePostgreSQL(db),
	}
}

func (r *repositoryManager) User() repositories.UserRepository                   { return r.users }
func (r *repositoryManager) Assessment() repositories.AssessmentRepository       { return r.assess }
func (r *repositoryManager) UserStats() repositories.UserStatsRepository         { return r.stats }
func (r *repositoryManager) FileUpload() repositories.FileUploadRepository       { return r.uploads }
func (r *repositoryManager) RevisionGuide() repositories.RevisionGuideRepository { return r.revisions }

func (r *repositoryManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repositoryManager) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// getDB prefers the caller's transaction over the pool
func getDB(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translateWriteError maps driver unique violations onto repositories.ErrDuplicateKey
func translateWriteError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s: %w", action, repositories.ErrDuplicateKey)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("failed to %s: %w", action, repositories.ErrDuplicateKey)
	}
	// sqlite, used by tests, reports constraint names only in the message
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("failed to %s: %w", action, repositories.ErrDuplicateKey)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
