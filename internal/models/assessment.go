package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is stored inline in the assessment's questions column.
type Question struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// CorrectInBounds reports whether Correct indexes into Options.
func (q Question) CorrectInBounds() bool {
	return q.Correct >= 0 && q.Correct < len(q.Options)
}

type Assessment struct {
	ID          string                        `json:"id" gorm:"primaryKey;size:36"`
	UserID      string                        `json:"userId" gorm:"not null;size:36;index"`
	Subject     string                        `json:"subject" gorm:"not null;size:100"`
	Topic       string                        `json:"topic" gorm:"not null;size:200"`
	KeyStage    KeyStage                      `json:"keyStage" gorm:"size:10"`
	Questions   datatypes.JSONSlice[Question] `json:"questions" gorm:"not null"`
	UserAnswers datatypes.JSONSlice[int]      `json:"userAnswers,omitempty"`
	Score       *float64                      `json:"score,omitempty" gorm:"type:numeric(5,2)"`
	IsCompleted bool                          `json:"isCompleted" gorm:"default:false;index"`
	CreatedAt   time.Time                     `json:"createdAt"`
	CompletedAt *time.Time                    `json:"completedAt,omitempty"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
