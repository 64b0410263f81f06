package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studyswaps/learning-service/internal/auth"
	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/email"
	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/studyswaps/learning-service/internal/repositories/postgres"
	"github.com/studyswaps/learning-service/internal/validator"
)

// stubGenerator returns questions with the configured correct indexes
type stubGenerator struct {
	mu       sync.Mutex
	correct  []int
	guide    string
	err      error
	requests []generator.QuestionRequest
	guides   []generator.GuideRequest
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, req generator.QuestionRequest) ([]models.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}

	correct := g.correct
	if correct == nil {
		correct = make([]int, req.Count)
	}
	questions := make([]models.Question, len(correct))
	for i, c := range correct {
		questions[i] = models.Question{
			ID:          fmt.Sprintf("q%d", i+1),
			Question:    fmt.Sprintf("What is %d + %d?", i, i),
			Options:     []string{"0", "1", "2", "3"},
			Correct:     c,
			Explanation: "Add the numbers.",
		}
	}
	return questions, nil
}

func (g *stubGenerator) GenerateRevisionGuide(ctx context.Context, req generator.GuideRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guides = append(g.guides, req)
	if g.err != nil {
		return "", g.err
	}
	if g.guide == "" {
		return "Key concepts", nil
	}
	return g.guide, nil
}

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	gen       *stubGenerator
	mailer    *email.MockSender
	publisher *events.MockEventPublisher
	tokens    *auth.TokenManager
	cache     cache.CacheService
	manager   ServiceManager
	logger    *slog.Logger
}

type envOption func(*Dependencies)

func withReveal(reveal bool) envOption {
	return func(d *Dependencies) { d.RevealAnswersBeforeSubmit = reveal }
}

func withCache(c cache.CacheService) envOption {
	return func(d *Dependencies) { d.Cache = c }
}

// withRepo swaps the store for a wrapper around it
func withRepo(wrap func(repositories.Repository) repositories.Repository) envOption {
	return func(d *Dependencies) { d.Repo = wrap(d.Repo) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
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

	env := &testEnv{
		db:        db,
		repo:      postgres.NewRepository(db),
		gen:       &stubGenerator{},
		mailer:    &email.MockSender{},
		publisher: events.NewMockEventPublisher(nil),
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	deps := Dependencies{
		Repo:                      env.repo,
		Generator:                 env.gen,
		Tokens:                    env.tokens,
		Mailer:                    env.mailer,
		Publisher:                 env.publisher,
		Validator:                 validator.New(),
		Logger:                    env.logger,
		SiteURL:                   "https://studyswaps.test/",
		RevealAnswersBeforeSubmit: true,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.repo = deps.Repo
	env.cache = deps.Cache
	env.manager = NewServiceManager(deps)
	return env
}

func (e *testEnv) seedUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
	}
	if role != models.RoleStudent {
		addr := fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano())
		user.Email = &addr
	}
	require.NoError(t, e.repo.User().Create(context.Background(), nil, user))
	return user
}

func (e *testEnv) generate(t *testing.T, userID string, correct ...int) *AssessmentResponse {
	t.Helper()
	e.gen.correct = correct
	resp, err := e.manager.Assessment().Generate(context.Background(), userID, &GenerateAssessmentRequest{
		Subject:      "Maths",
		Topic:        "Addition",
		KeyStage:     models.KeyStage2,
		NumQuestions: len(correct),
	})
	require.NoError(t, err)
	return resp
}
