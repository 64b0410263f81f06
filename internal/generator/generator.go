// Package generator turns subject, topic and key stage into AI-written question sets
// and revision guides, rejecting anything that does not fit the expected shape.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studyswaps/learning-service/internal/ai"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/utils"
)

const (
	MaxQuestions       = 50
	DefaultQuestions   = 10
	OptionsPerQuestion = 4

	// MaxSourceChars caps uploaded text forwarded into a revision guide prompt
	MaxSourceChars = 12000
)

var (
	ErrGenerationFailed = errors.New("generation failed")
	// ErrInvalidRequest is a caller mistake; nothing was sent to the provider
	ErrInvalidRequest = errors.New("invalid generation request")
)

// Generator is the assessment and revision guide source used by the services
type Generator interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]models.Question, error)
	GenerateRevisionGuide(ctx context.Context, req GuideRequest) (string, error)
}

type QuestionRequest struct {
	Subject  string
	Topic    string
	KeyStage models.KeyStage
	Count    int
}

type GuideRequest struct {
	Subject    string
	Topic      string
	KeyStage   models.KeyStage
	SourceText string
}

type aiGenerator struct {
	provider ai.Provider
	timeout  time.Duration
	logger   utils.Logger
}

// New builds a Generator; every provider call is bounded by timeout
func New(provider ai.Provider, timeout time.Duration, logger utils.Logger) Generator {
	return &aiGenerator{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

func (g *aiGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]models.Question, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.provider.Generate(ctx, ai.Request{
		System:      systemPrompt,
		Prompt:      questionPrompt(req),
		Schema:      questionSetSchema,
		MaxTokens:   maxTokensFor(req.Count),
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "Question generation call failed",
			"subject", req.Subject,
			"topic", req.Topic,
			"count", req.Count,
			"duration", time.Since(started).String(),
			"error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	questions, err := parseQuestionSet(resp.Content, req.Count)
	if err != nil {
		g.logger.WarnContext(ctx, "Rejected generated question set",
			"subject", req.Subject,
			"topic", req.Topic,
			"error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	g.logger.InfoContext(ctx, "Generated question set",
		"subject", req.Subject,
		"topic", req.Topic,
		"key_stage", req.KeyStage,
		"count", len(questions),
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens,
		"duration", time.Since(started).String())

	return questions, nil
}

func (g *aiGenerator) GenerateRevisionGuide(ctx context.Context, req GuideRequest) (string, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Topic) == "" {
		return "", fmt.Errorf("%w: subject and topic are required", ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, ai.Request{
		System:      systemPrompt,
		Prompt:      guidePrompt(req),
		MaxTokens:   3000,
		Temperature: 0.5,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "Revision guide call failed", "subject", req.Subject, "topic", req.Topic, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content := strings.TrimSpace(resp.Text)
	if content == "" {
		return "", fmt.Errorf("%w: empty revision guide", ErrGenerationFailed)
	}
	return content, nil
}

func (r QuestionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Topic) == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	case !r.KeyStage.Valid():
		return fmt.Errorf("%w: unknown key stage %q", ErrInvalidRequest, r.KeyStage)
	case r.Count < 1 || r.Count > MaxQuestions:
		return fmt.Errorf("%w: question count must be between 1 and %d", ErrInvalidRequest, MaxQuestions)
	}
	return nil
}

type questionSet struct {
	Questions []models.Question `json:"questions"`
}

// parseQuestionSet enforces the shape the scoring engine relies on and renumbers ids q1..qN
func parseQuestionSet(raw json.RawMessage, want int) ([]models.Question, error) {
	var set questionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("malformed question set: %w", err)
	}
	if len(set.Questions) != want {
		return nil, fmt.Errorf("expected %d questions, got %d", want, len(set.Questions))
	}

	for i := range set.Questions {
		q := &set.Questions[i]
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d has no prompt", i+1)
		}
		if len(q.Options) != OptionsPerQuestion {
			return nil, fmt.Errorf("question %d has %d options, want %d", i+1, len(q.Options), OptionsPerQuestion)
		}
		if !q.CorrectInBounds() {
			return nil, fmt.Errorf("question %d correct index %d out of range", i+1, q.Correct)
		}
		q.ID = fmt.Sprintf("q%d", i+1)
	}
	return set.Questions, nil
}

func maxTokensFor(count int) int {
	return 400 + count*250
}
