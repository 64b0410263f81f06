package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when a unique constraint rejects a write
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrAlreadyCompleted is returned when a conditional completion matched no open row
	ErrAlreadyCompleted = errors.New("assessment already completed")
)

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Subject     string `json:"subject"`
	IsCompleted *bool  `json:"isCompleted"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}

// ===== REPOSITORY MANAGER =====

// Repository groups every store the service talks to. Methods taking tx use it when
// non-nil so callers can compose them inside WithTransaction.
type Repository interface {
	User() UserRepository
	Assessment() AssessmentRepository
	UserStats() UserStatsRepository
	FileUpload() FileUploadRepository
	RevisionGuide() RevisionGuideRepository

	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err is a missing-row error
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique constraint violation
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
