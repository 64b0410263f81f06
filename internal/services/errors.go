package services

import (
	"errors"
	"fmt"

	apperrors "github.com/studyswaps/learning-service/internal/errors"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/scoring"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Account errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUsernameExhausted  = errors.New("could not allocate a unique username")

	// Assessment errors
	ErrAssessmentNotFound = errors.New("assessment not found")

	// Revision errors
	ErrUploadNotFound      = errors.New("upload not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Errors owned by other packages, re-exported so handlers depend on services only
var (
	ErrAlreadyCompleted    = scoring.ErrAlreadyCompleted
	ErrAnswerCountMismatch = scoring.ErrAnswerCountMismatch
	ErrGenerationFailed    = generator.ErrGenerationFailed

	ErrInvalidGenerationRequest = generator.ErrInvalidRequest
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// storeError marks an unexpected repository failure as StoreUnavailable
func storeError(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, ErrStoreUnavailable, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUploadNotFound)
}

// IsUnauthorized checks if error represents an authentication failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserInactive)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidGenerationRequest) ||
		errors.Is(err, ErrAnswerCountMismatch) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrFileTooLarge) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrEmailTaken)
}
