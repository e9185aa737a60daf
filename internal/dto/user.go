package dto

import (
	"time"

	"github.com/zfogg/picfeed/internal/models"
)

// UserResponse is the public user representation (safe for API responses)
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	PostsCount     int64     `json:"posts_count"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserProfileResponse is returned by GET /users/{id}
type UserProfileResponse struct {
	User         UserResponse `json:"user"`
	IsFollowing  bool         `json:"isFollowing"`
	IsOwnProfile bool         `json:"isOwnProfile"`
}

// UserSearchResponse is returned by GET /users/search
type UserSearchResponse struct {
	Users []UserResponse `json:"users"`
}

// FollowRequest is the body of POST/DELETE /follows
type FollowRequest struct {
	FollowingID string `json:"following_id" binding:"required,uuid"`
}

// ToUserResponse converts a user and its aggregate row. stats may be nil.
func ToUserResponse(user *models.User, stats *models.UserStats) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
	if stats != nil {
		resp.PostsCount = stats.PostsCount
		resp.FollowersCount = stats.FollowersCount
		resp.FollowingCount = stats.FollowingCount
	}
	return resp
}
