package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/studyswaps/learning-service/internal/auth"
	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/email"
	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/studyswaps/learning-service/internal/validator"
)

// eventPublishTimeout bounds a post-commit publish so it cannot stall the response
const eventPublishTimeout = 5 * time.Second

// Dependencies are the shared clients every service is built over
type Dependencies struct {
	Repo      repositories.Repository
	Generator generator.Generator
	Tokens    *auth.TokenManager
	Mailer    email.Sender
	Publisher events.EventPublisher
	Cache     cache.CacheService
	Validator *validator.Validator
	Logger    *slog.Logger

	SiteURL                   string
	RevealAnswersBeforeSubmit bool

	// Usernames overrides how child usernames are drawn
	Usernames UsernameSource
}

type serviceManager struct {
	repo       repositories.Repository
	auth       AuthService
	assessment AssessmentService
	stats      StatsService
	revision   RevisionService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}
	if deps.Mailer == nil {
		deps.Mailer = email.NewDisabledSender()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	stats := NewStatsService(deps.Repo, deps.Cache, deps.Logger)
	return &serviceManager{
		repo:  deps.Repo,
		stats: stats,
		auth: NewAuthService(deps.Repo, deps.Tokens, deps.Mailer, deps.Publisher,
			deps.Validator, deps.SiteURL, deps.Usernames, deps.Logger),
		assessment: NewAssessmentService(deps.Repo, deps.Generator, stats, deps.Publisher, deps.Validator,
			AssessmentServiceConfig{RevealAnswersBeforeSubmit: deps.RevealAnswersBeforeSubmit}, deps.Logger),
		revision: NewRevisionService(deps.Repo, deps.Generator, deps.Publisher, deps.Validator, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService             { return m.auth }
func (m *serviceManager) Assessment() AssessmentService { return m.assessment }
func (m *serviceManager) Stats() StatsService           { return m.stats }
func (m *serviceManager) Revision() RevisionService     { return m.revision }

func (m *serviceManager) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

// publishEvent runs after commit; a failed publish is logged and never surfaced
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
