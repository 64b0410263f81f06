package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kind of domain event
type EventType string

const (
	EventAssessmentGenerated    EventType = "assessment.generated"
	EventAssessmentCompleted    EventType = "assessment.completed"
	EventChildAccountsCreated   EventType = "accounts.children_created"
	EventRevisionGuideGenerated EventType = "revision_guide.generated"
)

const (
	eventSource  = "learning-service"
	eventVersion = "1.0"
)

// Event is the envelope for all domain events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps a payload in an envelope with a fresh id
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type AssessmentGeneratedEvent struct {
	AssessmentID  string `json:"assessmentId"`
	UserID        string `json:"userId"`
	Subject       string `json:"subject"`
	Topic         string `json:"topic"`
	KeyStage      string `json:"keyStage"`
	QuestionCount int    `json:"questionCount"`
}

type AssessmentCompletedEvent struct {
	AssessmentID         string    `json:"assessmentId"`
	UserID               string    `json:"userId"`
	Score                float64   `json:"score"`
	CorrectCount         int       `json:"correctCount"`
	TotalQuestions       int       `json:"totalQuestions"`
	PointsEarned         int       `json:"pointsEarned"`
	AssessmentsCompleted int       `json:"assessmentsCompleted"`
	AverageScore         float64   `json:"averageScore"`
	CompletedAt          time.Time `json:"completedAt"`
}

type ChildAccountsCreatedEvent struct {
	ParentID  string   `json:"parentId"`
	ChildIDs  []string `json:"childIds"`
	EmailSent bool     `json:"emailSent"`
}

type RevisionGuideGeneratedEvent struct {
	GuideID  string `json:"guideId"`
	UserID   string `json:"userId"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	UploadID string `json:"uploadId,omitempty"`
}
