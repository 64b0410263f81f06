package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/scoring"
	"github.com/studyswaps/learning-service/internal/services"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.RegisterResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.RegisterResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) ChildLogin(ctx context.Context, req *services.ChildLoginRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockAssessmentService struct{ mock.Mock }

func (m *mockAssessmentService) Generate(ctx context.Context, userID string, req *services.GenerateAssessmentRequest) (*services.AssessmentResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*services.AssessmentResponse)
	return resp, args.Error(1)
}

func (m *mockAssessmentService) Submit(ctx context.Context, userID, assessmentID string, req *services.SubmitAssessmentRequest) (*scoring.Result, error) {
	args := m.Called(ctx, userID, assessmentID, req)
	resp, _ := args.Get(0).(*scoring.Result)
	return resp, args.Error(1)
}

func (m *mockAssessmentService) Get(ctx context.Context, userID, assessmentID string) (*services.AssessmentResponse, error) {
	args := m.Called(ctx, userID, assessmentID)
	resp, _ := args.Get(0).(*services.AssessmentResponse)
	return resp, args.Error(1)
}

func (m *mockAssessmentService) List(ctx context.Context, userID string, req *services.AssessmentListRequest) ([]*services.AssessmentResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).([]*services.AssessmentResponse)
	return resp, args.Error(1)
}

func (m *mockAssessmentService) Export(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) GetStats(ctx context.Context, userID string) (*services.StatsResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*services.StatsResponse)
	return resp, args.Error(1)
}

func (m *mockStatsService) ListChildren(ctx context.Context, parentID string) ([]*services.ChildOverview, error) {
	args := m.Called(ctx, parentID)
	resp, _ := args.Get(0).([]*services.ChildOverview)
	return resp, args.Error(1)
}

func (m *mockStatsService) RecordStats(ctx context.Context, stats *models.UserStats) {
	m.Called(ctx, stats)
}

type mockRevisionService struct{ mock.Mock }

func (m *mockRevisionService) Upload(ctx context.Context, userID string, req *services.UploadRequest) (*models.FileUpload, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*models.FileUpload)
	return resp, args.Error(1)
}

func (m *mockRevisionService) ListUploads(ctx context.Context, userID string) ([]*models.FileUpload, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]*models.FileUpload)
	return resp, args.Error(1)
}

func (m *mockRevisionService) GenerateGuide(ctx context.Context, userID string, req *services.RevisionGuideRequest) (*models.RevisionGuide, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*models.RevisionGuide)
	return resp, args.Error(1)
}

func (m *mockRevisionService) ListGuides(ctx context.Context, userID string) ([]*models.RevisionGuide, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).([]*models.RevisionGuide)
	return resp, args.Error(1)
}

type mockServiceManager struct {
	auth       *mockAuthService
	assessment *mockAssessmentService
	stats      *mockStatsService
	revision   *mockRevisionService
	pingErr    error
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		auth:       &mockAuthService{},
		assessment: &mockAssessmentService{},
		stats:      &mockStatsService{},
		revision:   &mockRevisionService{},
	}
}

func (m *mockServiceManager) Auth() services.AuthService             { return m.auth }
func (m *mockServiceManager) Assessment() services.AssessmentService { return m.assessment }
func (m *mockServiceManager) Stats() services.StatsService           { return m.stats }
func (m *mockServiceManager) Revision() services.RevisionService     { return m.revision }
func (m *mockServiceManager) Ping(ctx context.Context) error         { return m.pingErr }
