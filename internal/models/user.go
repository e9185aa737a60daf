package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local record for an identity-provider account. It is created
// the first time a verified token for an unseen subject reaches the API.
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	IDPSubject  string `gorm:"column:idp_subject;uniqueIndex;not null" json:"-"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`
	AvatarURL   string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID so inserts behave the same on every dialect
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
