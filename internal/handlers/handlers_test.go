package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/scoring"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

const (
	testToken    = "valid-token"
	assessmentID = "7d1c9a8e-5a64-4c8b-9a43-2d9f0c6f1e21"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	manager *mockServiceManager
	user    *models.User
}

func newTestServer(t *testing.T, role models.UserRole, cfg ...RouterConfig) *testServer {
	t.Helper()

	manager := newMockServiceManager()
	user := &models.User{ID: "user-1", FirstName: "Ada", Role: role, IsActive: true}
	manager.auth.On("Authenticate", mock.Anything, testToken).Return(user, nil).Maybe()
	manager.auth.On("Authenticate", mock.Anything, mock.Anything).Return(nil, services.ErrUnauthorized).Maybe()

	config := RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		CookieTTL:      time.Hour,
	}
	if len(cfg) > 0 {
		config = cfg[0]
	}

	hm := NewHandlerManager(manager, config, utils.NewNopLogger())
	return &testServer{router: hm.NewRouter(), manager: manager, user: user}
}

func (s *testServer) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ===== AUTH MIDDLEWARE =====

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.stats.On("GetStats", mock.Anything, "user-1").Return(&services.StatsResponse{TotalPoints: 75}, nil)

	w := s.do(http.MethodGet, "/api/users/stats", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decodeError(t, w).Message)

	req := httptest.NewRequest(http.MethodGet, "/api/users/stats", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/stats", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: testToken})
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 75, stats.TotalPoints)
}

func TestAuthMiddlewareInactiveUser(t *testing.T) {
	manager := newMockServiceManager()
	manager.auth.On("Authenticate", mock.Anything, "sleepy").Return(nil, services.ErrUserInactive)
	router := NewHandlerManager(manager, RouterConfig{}, utils.NewNopLogger()).NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sleepy")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not found or inactive", decodeError(t, w).Message)
}

func TestChildrenRequiresParentRole(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)

	w := s.do(http.MethodGet, "/api/users/children", nil, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", decodeError(t, w).Message)
	s.manager.stats.AssertNotCalled(t, "ListChildren", mock.Anything, mock.Anything)

	parent := newTestServer(t, models.RoleParent)
	parent.manager.stats.On("ListChildren", mock.Anything, "user-1").Return([]*services.ChildOverview{}, nil)
	w = parent.do(http.MethodGet, "/api/users/children", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ===== AUTH ROUTES =====

func TestRegister(t *testing.T) {
	s := newTestServer(t, models.RoleParent)
	body := map[string]interface{}{
		"email":     "grace@example.com",
		"firstName": "Grace",
		"lastName":  "Hopper",
		"children":  []map[string]interface{}{{"firstName": "Ada", "lastName": "Lovelace", "age": 10, "keyStage": "KS2"}},
	}
	s.manager.auth.On("Register", mock.Anything, mock.MatchedBy(func(req *services.RegisterRequest) bool {
		return req.Email == "grace@example.com" && len(req.Children) == 1 && req.Children[0].KeyStage == models.KeyStage2
	})).Return(&services.RegisterResponse{
		User:     &models.User{ID: "parent-1", Role: models.RoleParent},
		Children: []services.ChildCredentialResponse{{ID: "child-1", Username: "adalovelace42", Password: "ada123"}},
		Token:    "issued-token",
	}, nil)

	w := s.do(http.MethodPost, "/api/auth/register", body, false)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp services.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "issued-token", resp.Token)
	assert.Equal(t, "ada123", resp.Children[0].Password)
	assert.False(t, resp.EmailSent)

	cookie := w.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.Equal(t, AuthCookieName, cookie[0].Name)
	assert.Equal(t, "issued-token", cookie[0].Value)
	assert.True(t, cookie[0].HttpOnly)
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t, models.RoleParent)
	s.manager.auth.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrEmailTaken).Once()

	w := s.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "dup@example.com"}, false)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decodeError(t, w).Code)

	w = s.do(http.MethodPost, "/api/auth/register", "{not json", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decodeError(t, w).Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t, models.RoleParent)
	s.manager.auth.On("ChildLogin", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCredentials)

	w := s.do(http.MethodPost, "/api/auth/child-login", map[string]string{"username": "ada", "password": "nope"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, w).Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t, models.RoleParent)

	w := s.do(http.MethodPost, "/api/auth/logout", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

// ===== ASSESSMENT ROUTES =====

func TestGenerateAssessment(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.assessment.On("Generate", mock.Anything, "user-1", &services.GenerateAssessmentRequest{
		Subject: "Maths", Topic: "Fractions", KeyStage: models.KeyStage2, NumQuestions: 4,
	}).Return(&services.AssessmentResponse{ID: assessmentID, Subject: "Maths"}, nil)

	w := s.do(http.MethodPost, "/api/assessments/generate", map[string]interface{}{
		"subject": "Maths", "topic": "Fractions", "keyStage": "KS2", "numQuestions": 4,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), assessmentID)
	s.manager.assessment.AssertExpectations(t)
}

func TestGenerateAssessmentErrors(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.assessment.On("Generate", mock.Anything, "user-1", mock.Anything).
		Return(nil, services.ValidationErrors{{Field: "keyStage", Message: "must be one of KS1, KS2, KS3, KS4, KS5"}}).Once()
	s.manager.assessment.On("Generate", mock.Anything, "user-1", mock.Anything).
		Return(nil, errors.Join(services.ErrGenerationFailed, errors.New("upstream 502"))).Once()

	w := s.do(http.MethodPost, "/api/assessments/generate", map[string]string{"keyStage": "KS9"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.NotNil(t, resp.Details)

	w = s.do(http.MethodPost, "/api/assessments/generate", map[string]string{"subject": "Maths"}, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "GENERATION_FAILED", decodeError(t, w).Code)
	assert.NotContains(t, w.Body.String(), "upstream")
}

func TestSubmitAssessment(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.assessment.On("Submit", mock.Anything, "user-1", assessmentID, &services.SubmitAssessmentRequest{
		UserAnswers: []int{0, 9, 2, 3},
	}).Return(&scoring.Result{Score: 75, CorrectCount: 3, TotalQuestions: 4, PointsEarned: 75}, nil)

	w := s.do(http.MethodPost, "/api/assessments/"+assessmentID+"/submit", map[string]interface{}{
		"userAnswers": []int{0, 9, 2, 3},
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	var result scoring.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 75.0, result.Score)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 75, result.PointsEarned)
}

func TestSubmitAssessmentErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already completed", services.ErrAlreadyCompleted, http.StatusConflict, "ALREADY_COMPLETED"},
		{"count mismatch", services.ErrAnswerCountMismatch, http.StatusBadRequest, "ANSWER_COUNT_MISMATCH"},
		{"not found", services.ErrAssessmentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"bad generation input", fmt.Errorf("%w: topic is required", services.ErrInvalidGenerationRequest), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"store down", errors.Join(services.ErrStoreUnavailable, errors.New("dial tcp")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, models.RoleStudent)
			s.manager.assessment.On("Submit", mock.Anything, "user-1", assessmentID, mock.Anything).Return(nil, tt.err)

			w := s.do(http.MethodPost, "/api/assessments/"+assessmentID+"/submit", map[string]interface{}{"userAnswers": []int{1}}, true)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestSubmitAssessmentInvalidID(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)

	w := s.do(http.MethodPost, "/api/assessments/not-a-uuid/submit", map[string]interface{}{"userAnswers": []int{1}}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
	s.manager.assessment.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	w = s.do(http.MethodGet, "/api/assessments/12345", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	s.manager.assessment.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestListAssessmentsQuery(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.assessment.On("List", mock.Anything, "user-1", mock.MatchedBy(func(req *services.AssessmentListRequest) bool {
		return req.Subject == "Maths" && req.IsCompleted != nil && *req.IsCompleted && req.Limit == 5
	})).Return([]*services.AssessmentResponse{{ID: assessmentID}}, nil)

	w := s.do(http.MethodGet, "/api/assessments?subject=Maths&completed=true&limit=5", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var list []services.AssessmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestExportAssessments(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.assessment.On("Export", mock.Anything, "user-1").Return([]byte("PK-workbook"), nil)

	w := s.do(http.MethodGet, "/api/assessments/export", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "PK-workbook", w.Body.String())
}

// ===== UPLOADS =====

func TestUploadFile(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)
	s.manager.revision.On("Upload", mock.Anything, "user-1", mock.MatchedBy(func(req *services.UploadRequest) bool {
		return req.Filename == "notes.txt" && string(req.Content) == "mitochondria" && req.Subject == "Biology"
	})).Return(&models.FileUpload{ID: "upload-1", OriginalName: "notes.txt"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("mitochondria"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("subject", "Biology"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "upload-1")
}

func TestUploadWithoutFile(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)

	w := s.do(http.MethodPost, "/api/uploads", "{}", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, w).Message)
}

// ===== INFRASTRUCTURE =====

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)

	w := s.do(http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"connected"`)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))

	s.manager.pingErr = errors.New("connection refused")
	w = s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, models.RoleStudent)

	req := httptest.NewRequest(http.MethodOptions, "/api/assessments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/assessments", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := newTestServer(t, models.RoleStudent, RouterConfig{
		RateLimiter:     cache.NewRedisRateLimiter(client, "rl:"),
		GlobalRateLimit: 100,
		AuthRateLimit:   2,
		RateLimitWindow: 15 * time.Minute,
	})
	s.manager.auth.On("Login", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidCredentials)

	body := map[string]string{"email": "a@example.com", "password": "x"}
	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPost, "/api/auth/login", body, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := s.do(http.MethodPost, "/api/auth/login", body, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, strings.HasPrefix(decodeError(t, w).Message, "Too many authentication attempts"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	s.manager.auth.AssertNumberOfCalls(t, "Login", 2)

	w = s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}
