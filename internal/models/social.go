package models

import "time"

// Like marks that a user likes a post. The composite primary key makes a
// second like of the same post by the same user a unique violation.
type Like struct {
	PostID string `gorm:"primaryKey;type:uuid" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID string `gorm:"primaryKey;type:uuid;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed edge from follower to following
type Follow struct {
	FollowerID  string `gorm:"primaryKey;type:uuid;check:chk_follows_not_self,follower_id <> following_id" json:"follower_id"`
	Follower    User   `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID string `gorm:"primaryKey;type:uuid;index" json:"following_id"`
	Following   User   `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
