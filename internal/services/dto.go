package services

import (
	"time"

	"github.com/studyswaps/learning-service/internal/models"
)

// ===== AUTH DTOs =====

type ChildInput struct {
	FirstName string          `json:"firstName" validate:"required,not_blank,max=100"`
	LastName  string          `json:"lastName" validate:"required,not_blank,max=100"`
	Age       int             `json:"age" validate:"gte=3,lte=19"`
	KeyStage  models.KeyStage `json:"keyStage" validate:"required,key_stage"`
}

type RegisterRequest struct {
	Email     string       `json:"email" validate:"required,email,max=255"`
	FirstName string       `json:"firstName" validate:"required,not_blank,max=100"`
	LastName  string       `json:"lastName" validate:"required,not_blank,max=100"`
	Password  string       `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Children  []ChildInput `json:"children" validate:"max=10,dive"`
}

// ChildCredentialResponse carries the plaintext password; it is only ever returned once
type ChildCredentialResponse struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Username  string          `json:"username"`
	Password  string          `json:"password"`
	Age       int             `json:"age"`
	KeyStage  models.KeyStage `json:"keyStage"`
}

type RegisterResponse struct {
	User      *models.User              `json:"user"`
	Children  []ChildCredentialResponse `json:"children"`
	Token     string                    `json:"token"`
	EmailSent bool                      `json:"emailSent"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChildLoginRequest struct {
	Username string `json:"username" validate:"required,not_blank"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// ===== ASSESSMENT DTOs =====

type GenerateAssessmentRequest struct {
	Subject      string          `json:"subject" validate:"required,not_blank,max=100"`
	Topic        string          `json:"topic" validate:"required,not_blank,max=200"`
	KeyStage     models.KeyStage `json:"keyStage" validate:"required,key_stage"`
	NumQuestions int             `json:"numQuestions" validate:"omitempty,gte=1,lte=50"`
}

type SubmitAssessmentRequest struct {
	UserAnswers []int `json:"userAnswers" validate:"required"`
}

type AssessmentListRequest struct {
	Subject     string `form:"subject" json:"subject"`
	IsCompleted *bool  `form:"completed" json:"completed"`
	Limit       int    `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset      int    `form:"offset" json:"offset" validate:"omitempty,gte=0"`
}

// QuestionResponse hides Correct and Explanation when the answer key is withheld
type QuestionResponse struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     *int     `json:"correct,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

type AssessmentResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Subject     string             `json:"subject"`
	Topic       string             `json:"topic"`
	KeyStage    models.KeyStage    `json:"keyStage"`
	Questions   []QuestionResponse `json:"questions"`
	UserAnswers []int              `json:"userAnswers,omitempty"`
	Score       *float64           `json:"score"`
	IsCompleted bool               `json:"isCompleted"`
	CreatedAt   time.Time          `json:"createdAt"`
	CompletedAt *time.Time         `json:"completedAt"`
}

// ===== STATS DTOs =====

type StatsResponse struct {
	TotalPoints          int        `json:"totalPoints"`
	AssessmentsCompleted int        `json:"assessmentsCompleted"`
	AverageScore         float64    `json:"averageScore"`
	Streak               int        `json:"streak"`
	LastCompletedAt      *time.Time `json:"lastCompletedAt,omitempty"`
}

type ChildOverview struct {
	User  *models.User  `json:"user"`
	Stats StatsResponse `json:"stats"`
}

// ===== REVISION DTOs =====

type UploadRequest struct {
	Filename    string `validate:"required,max=255"`
	ContentType string
	Subject     string `validate:"max=100"`
	Topic       string `validate:"max=200"`
	Content     []byte
}

type RevisionGuideRequest struct {
	Subject  string          `json:"subject" validate:"required,not_blank,max=100"`
	Topic    string          `json:"topic" validate:"required,not_blank,max=200"`
	KeyStage models.KeyStage `json:"keyStage" validate:"required,key_stage"`
	UploadID *string         `json:"uploadId,omitempty" validate:"omitempty,uuid"`
}

// ===== MAPPERS =====

func toAssessmentResponse(a *models.Assessment, revealAnswers bool) *AssessmentResponse {
	reveal := revealAnswers || a.IsCompleted

	questions := make([]QuestionResponse, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = QuestionResponse{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		}
		if reveal {
			correct := q.Correct
			questions[i].Correct = &correct
			questions[i].Explanation = q.Explanation
		}
	}

	return &AssessmentResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Subject:     a.Subject,
		Topic:       a.Topic,
		KeyStage:    a.KeyStage,
		Questions:   questions,
		UserAnswers: a.UserAnswers,
		Score:       a.Score,
		IsCompleted: a.IsCompleted,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
	}
}

func toStatsResponse(s *models.UserStats) StatsResponse {
	if s == nil {
		return StatsResponse{}
	}
	return StatsResponse{
		TotalPoints:          s.TotalPoints,
		AssessmentsCompleted: s.AssessmentsCompleted,
		AverageScore:         s.AverageScore,
		Streak:               s.Streak,
		LastCompletedAt:      s.LastCompletedAt,
	}
}
