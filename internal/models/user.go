package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleParent  UserRole = "parent"
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type KeyStage string

const (
	KeyStage1 KeyStage = "KS1"
	KeyStage2 KeyStage = "KS2"
	KeyStage3 KeyStage = "KS3"
	KeyStage4 KeyStage = "KS4"
	KeyStage5 KeyStage = "KS5"
)

// KeyStages lists the accepted stage labels in ascending order.
var KeyStages = []KeyStage{KeyStage1, KeyStage2, KeyStage3, KeyStage4, KeyStage5}

func (k KeyStage) Valid() bool {
	for _, ks := range KeyStages {
		if ks == k {
			return true
		}
	}
	return false
}

func (r UserRole) Valid() bool {
	return r == RoleParent || r == RoleStudent || r == RoleTeacher
}

type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	Email     *string  `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	FirstName string   `json:"firstName" gorm:"not null;size:100"`
	LastName  string   `json:"lastName" gorm:"not null;size:100"`
	Role      UserRole `json:"role" gorm:"not null;size:20;index"`

	// Parent credentials; empty for children and password-less parents
	PasswordHash string `json:"-" gorm:"size:255"`

	// Child profile
	ParentID            *string   `json:"parentId,omitempty" gorm:"size:36;index"`
	Age                 *int      `json:"age,omitempty"`
	KeyStage            *KeyStage `json:"keyStage,omitempty" gorm:"size:10"`
	StudentUsername     *string   `json:"studentUsername,omitempty" gorm:"uniqueIndex;size:120"`
	StudentPasswordHash string    `json:"-" gorm:"size:255"`

	SubscriptionTier string `json:"subscriptionTier" gorm:"default:free;size:20"`
	IsActive         bool   `json:"isActive" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Parent *User `json:"-" gorm:"foreignKey:ParentID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.SubscriptionTier == "" {
		u.SubscriptionTier = "free"
	}
	return nil
}

func (u *User) IsChild() bool {
	return u.Role == RoleStudent && u.ParentID != nil
}
