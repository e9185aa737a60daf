package dto

import (
	"time"

	"github.com/zfogg/picfeed/internal/models"
)

// Author is the embedded author summary on posts and comments
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// CommentResponse is a comment with its author
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
}

// PostResponse is a feed row: the post, its author, viewer state and aggregates
type PostResponse struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	ImageURL       string            `json:"image_url"`
	Caption        *string           `json:"caption"`
	CreatedAt      time.Time         `json:"created_at"`
	Author         Author            `json:"author"`
	LikesCount     int64             `json:"likes_count"`
	CommentsCount  int64             `json:"comments_count"`
	IsLiked        bool              `json:"is_liked"`
	RecentComments []CommentResponse `json:"recent_comments"`
}

// Pagination describes a feed page window
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// PostPage is returned by GET /posts and GET /likes/user
type PostPage struct {
	Data       []PostResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// PostDetailResponse is returned by GET /posts/{id}
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// LikeRequest is the body of POST/DELETE /likes
type LikeRequest struct {
	PostID string `json:"post_id" binding:"required,uuid"`
}

// LikeResponse is returned by POST/DELETE /likes
type LikeResponse struct {
	Success    bool        `json:"success"`
	Like       models.Like `json:"like"`
	IsLiked    bool        `json:"is_liked"`
	LikesCount int64       `json:"likes_count"`
}

// CreateCommentRequest is the body of POST /comments
type CreateCommentRequest struct {
	PostID  string `json:"post_id" binding:"required,uuid"`
	Content string `json:"content" binding:"required"`
}

// DeleteCommentRequest is the body of DELETE /comments
type DeleteCommentRequest struct {
	CommentID string `json:"comment_id" binding:"required,uuid"`
}

// ToAuthor converts a user into the embedded author summary
func ToAuthor(user *models.User) Author {
	if user == nil {
		return Author{}
	}
	return Author{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// ToCommentResponse converts a comment with a preloaded author
func ToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    ToAuthor(&c.User),
	}
}
