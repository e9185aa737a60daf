package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MaxCaptionLength is the longest caption a post may carry, in characters
	MaxCaptionLength = 2200
	// MaxCommentLength is the longest comment body, in characters
	MaxCommentLength = 500
)

// Post is an uploaded image with an optional caption
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	ImageURL string  `gorm:"not null" json:"image_url"`
	ImageKey string  `gorm:"not null" json:"-"` // object store key, used for cleanup
	Caption  *string `gorm:"type:text" json:"caption"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID so inserts behave the same on every dialect
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Comment is a short text reply on a post
type Comment struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"type:uuid;not null;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID so inserts behave the same on every dialect
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
