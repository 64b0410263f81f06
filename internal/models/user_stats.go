package models

import "time"

type UserStats struct {
	UserID               string     `json:"userId" gorm:"primaryKey;size:36"`
	TotalPoints          int        `json:"totalPoints" gorm:"not null;default:0"`
	AssessmentsCompleted int        `json:"assessmentsCompleted" gorm:"not null;default:0"`
	AverageScore         float64    `json:"averageScore" gorm:"not null;default:0"`
	Streak               int        `json:"streak" gorm:"not null;default:0"`
	LastCompletedAt      *time.Time `json:"lastCompletedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
