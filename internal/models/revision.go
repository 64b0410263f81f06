package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileUpload struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserID        string    `json:"userId" gorm:"not null;size:36;index"`
	Filename      string    `json:"filename" gorm:"not null;size:255"`
	OriginalName  string    `json:"originalName" gorm:"not null;size:255"`
	ContentType   string    `json:"contentType" gorm:"size:100"`
	Size          int64     `json:"size"`
	Subject       string    `json:"subject,omitempty" gorm:"size:100"`
	Topic         string    `json:"topic,omitempty" gorm:"size:200"`
	ExtractedText string    `json:"extractedText,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type RevisionGuide struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       string    `json:"userId" gorm:"not null;size:36;index"`
	Subject      string    `json:"subject" gorm:"not null;size:100"`
	Topic        string    `json:"topic" gorm:"not null;size:200"`
	KeyStage     KeyStage  `json:"keyStage" gorm:"size:10"`
	FileUploadID *string   `json:"fileUploadId,omitempty" gorm:"size:36;index"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (RevisionGuide) TableName() string {
	return "revision_guides"
}

func (g *RevisionGuide) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// AllModels is the migration set, parents before children.
func AllModels() []any {
	return []any{&User{}, &Assessment{}, &UserStats{}, &FileUpload{}, &RevisionGuide{}}
}
