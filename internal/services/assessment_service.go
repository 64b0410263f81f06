package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyswaps/learning-service/internal/events"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/repositories"
	"github.com/studyswaps/learning-service/internal/scoring"
	"github.com/studyswaps/learning-service/internal/validator"
	"gorm.io/gorm"
)

type assessmentService struct {
	repo          repositories.Repository
	generator     generator.Generator
	stats         StatsService
	publisher     events.EventPublisher
	validator     *validator.Validator
	revealAnswers bool
	now           func() time.Time
	logger        *slog.Logger
	ops           *ServiceLogger
}

type AssessmentServiceConfig struct {
	// RevealAnswersBeforeSubmit keeps correct and explanation on open assessments
	RevealAnswersBeforeSubmit bool
	// Now defaults to time.Now
	Now func() time.Time
}

func NewAssessmentService(
	repo repositories.Repository,
	gen generator.Generator,
	stats StatsService,
	publisher events.EventPublisher,
	validator *validator.Validator,
	cfg AssessmentServiceConfig,
	logger *slog.Logger,
) AssessmentService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &assessmentService{
		repo:          repo,
		generator:     gen,
		stats:         stats,
		publisher:     publisher,
		validator:     validator,
		revealAnswers: cfg.RevealAnswersBeforeSubmit,
		now:           now,
		logger:        logger,
		ops:           NewServiceLogger(logger, "assessment"),
	}
}

// ===== GENERATION =====

func (s *assessmentService) Generate(ctx context.Context, userID string, req *GenerateAssessmentRequest) (resp *AssessmentResponse, err error) {
	op := s.ops.WithOperation(ctx, "generate_assessment", userID)
	defer func() {
		id := ""
		if resp != nil {
			id = resp.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	count := req.NumQuestions
	if count == 0 {
		count = generator.DefaultQuestions
	}

	questions, err := s.generator.GenerateQuestions(ctx, generator.QuestionRequest{
		Subject:  req.Subject,
		Topic:    req.Topic,
		KeyStage: req.KeyStage,
		Count:    count,
	})
	if err != nil {
		return nil, err
	}

	assessment := &models.Assessment{
		UserID:    userID,
		Subject:   req.Subject,
		Topic:     req.Topic,
		KeyStage:  req.KeyStage,
		Questions: questions,
	}
	if err := s.repo.Assessment().Create(ctx, nil, assessment); err != nil {
		return nil, storeError("create assessment", err)
	}

	s.logger.InfoContext(ctx, "Assessment generated",
		"assessment_id", assessment.ID,
		"user_id", userID,
		"subject", assessment.Subject,
		"question_count", len(questions))

	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.EventAssessmentGenerated, events.AssessmentGeneratedEvent{
		AssessmentID:  assessment.ID,
		UserID:        userID,
		Subject:       assessment.Subject,
		Topic:         assessment.Topic,
		KeyStage:      string(assessment.KeyStage),
		QuestionCount: len(questions),
	}))

	return toAssessmentResponse(assessment, s.revealAnswers), nil
}

// ===== SUBMISSION =====

// Submit scores the answers and records completion plus the stats update in one transaction.
// Only the first of several concurrent submissions commits; the rest get ErrAlreadyCompleted.
func (s *assessmentService) Submit(ctx context.Context, userID, assessmentID string, req *SubmitAssessmentRequest) (result *scoring.Result, err error) {
	op := s.ops.WithOperation(ctx, "submit_assessment", userID)
	defer func() { op.LogResult(assessmentID, err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	completedAt := s.now().UTC()
	var stats models.UserStats

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		assessment, err := s.loadOwned(ctx, tx, userID, assessmentID)
		if err != nil {
			return err
		}

		result, err = scoring.Score(assessment, req.UserAnswers)
		if err != nil {
			return err
		}

		err = s.repo.Assessment().MarkCompleted(ctx, tx, assessment.ID, repositories.Completion{
			UserAnswers: req.UserAnswers,
			Score:       result.Score,
			CompletedAt: completedAt,
		})
		if err != nil {
			if errors.Is(err, repositories.ErrAlreadyCompleted) {
				return ErrAlreadyCompleted
			}
			return storeError("mark assessment completed", err)
		}

		prev, err := s.repo.UserStats().GetForUpdate(ctx, tx, userID)
		if err != nil {
			return storeError("lock user stats", err)
		}
		stats = scoring.ApplyScore(*prev, result.Score, completedAt)
		if err := s.repo.UserStats().Save(ctx, tx, &stats); err != nil {
			return storeError("save user stats", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Assessment submitted",
		"assessment_id", assessmentID,
		"user_id", userID,
		"score", result.Score,
		"correct_count", result.CorrectCount,
		"total_questions", result.TotalQuestions)

	s.stats.RecordStats(ctx, &stats)

	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.EventAssessmentCompleted, events.AssessmentCompletedEvent{
		AssessmentID:         assessmentID,
		UserID:               userID,
		Score:                result.Score,
		CorrectCount:         result.CorrectCount,
		TotalQuestions:       result.TotalQuestions,
		PointsEarned:         result.PointsEarned,
		AssessmentsCompleted: stats.AssessmentsCompleted,
		AverageScore:         stats.AverageScore,
		CompletedAt:          completedAt,
	}))

	return result, nil
}

// ===== QUERIES =====

func (s *assessmentService) Get(ctx context.Context, userID, assessmentID string) (*AssessmentResponse, error) {
	assessment, err := s.loadOwned(ctx, nil, userID, assessmentID)
	if err != nil {
		return nil, err
	}
	return toAssessmentResponse(assessment, s.revealAnswers), nil
}

func (s *assessmentService) List(ctx context.Context, userID string, req *AssessmentListRequest) ([]*AssessmentResponse, error) {
	if req == nil {
		req = &AssessmentListRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assessments, err := s.repo.Assessment().ListByUser(ctx, nil, userID, repositories.AssessmentFilters{
		Subject:     req.Subject,
		IsCompleted: req.IsCompleted,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return nil, storeError("list assessments", err)
	}

	out := make([]*AssessmentResponse, len(assessments))
	for i, a := range assessments {
		out[i] = toAssessmentResponse(a, s.revealAnswers)
	}
	return out, nil
}

// ===== HELPERS =====

// loadOwned reports another user's assessment as not found
func (s *assessmentService) loadOwned(ctx context.Context, tx *gorm.DB, userID, assessmentID string) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, tx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, storeError("load assessment", err)
	}
	if assessment.UserID != userID {
		s.ops.LogSecurityEvent(ctx, SecurityEventCrossAccessDenied, "assessment owned by another user",
			"user_id", userID,
			"assessment_id", assessmentID)
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, assessmentID)
	}
	return assessment, nil
}
