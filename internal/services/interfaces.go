package services

import (
	"context"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/scoring"
)

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ChildLogin(ctx context.Context, req *ChildLoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.User, error)

	// Authenticate resolves a bearer token to an active user
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type AssessmentService interface {
	Generate(ctx context.Context, userID string, req *GenerateAssessmentRequest) (*AssessmentResponse, error)
	Submit(ctx context.Context, userID, assessmentID string, req *SubmitAssessmentRequest) (*scoring.Result, error)
	Get(ctx context.Context, userID, assessmentID string) (*AssessmentResponse, error)
	List(ctx context.Context, userID string, req *AssessmentListRequest) ([]*AssessmentResponse, error)

	// Export renders the user's assessment history as an xlsx workbook
	Export(ctx context.Context, userID string) ([]byte, error)
}

type StatsService interface {
	GetStats(ctx context.Context, userID string) (*StatsResponse, error)
	ListChildren(ctx context.Context, parentID string) ([]*ChildOverview, error)
	// RecordStats caches a freshly committed stats row in place of whatever is cached
	RecordStats(ctx context.Context, stats *models.UserStats)
}

type RevisionService interface {
	Upload(ctx context.Context, userID string, req *UploadRequest) (*models.FileUpload, error)
	ListUploads(ctx context.Context, userID string) ([]*models.FileUpload, error)
	GenerateGuide(ctx context.Context, userID string, req *RevisionGuideRequest) (*models.RevisionGuide, error)
	ListGuides(ctx context.Context, userID string) ([]*models.RevisionGuide, error)
}

// ServiceManager hands out the services built over one shared set of collaborators
type ServiceManager interface {
	Auth() AuthService
	Assessment() AssessmentService
	Stats() StatsService
	Revision() RevisionService

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
