package api

import "time"

// Author is the author summary embedded in posts and comments
type Author struct {
	ID          string `json:"id" validate:"required"`
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Comment is a comment with its author
type Comment struct {
	ID        string    `json:"id" validate:"required"`
	PostID    string    `json:"post_id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
}

// Post is one feed row
type Post struct {
	ID             string    `json:"id" validate:"required"`
	UserID         string    `json:"user_id" validate:"required"`
	ImageURL       string    `json:"image_url" validate:"required"`
	Caption        *string   `json:"caption"`
	CreatedAt      time.Time `json:"created_at"`
	Author         Author    `json:"author"`
	LikesCount     int64     `json:"likes_count" validate:"gte=0"`
	CommentsCount  int64     `json:"comments_count" validate:"gte=0"`
	IsLiked        bool      `json:"is_liked"`
	RecentComments []Comment `json:"recent_comments" validate:"dive"`
}

// CaptionText returns the caption or ""
func (p Post) CaptionText() string {
	if p.Caption == nil {
		return ""
	}
	return *p.Caption
}

// Pagination describes a page window
type Pagination struct {
	Total   int64 `json:"total" validate:"gte=0"`
	Limit   int   `json:"limit" validate:"gte=1"`
	Offset  int   `json:"offset" validate:"gte=0"`
	HasMore bool  `json:"hasMore"`
}

// PostPage is a page of the feed or of liked posts
type PostPage struct {
	Data       []Post     `json:"data" validate:"required,dive"`
	Pagination Pagination `json:"pagination"`
}

// PostDetail is a post with every comment, oldest first
type PostDetail struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments" validate:"dive"`
}

// CreatedPost is the body returned by POST /posts
type CreatedPost struct {
	Success bool `json:"success"`
	Post    struct {
		ID        string    `json:"id" validate:"required"`
		UserID    string    `json:"user_id" validate:"required"`
		ImageURL  string    `json:"image_url" validate:"required"`
		Caption   *string   `json:"caption"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"post"`
}

// Like is a like row
type Like struct {
	PostID    string    `json:"post_id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResult is returned by POST and DELETE /likes
type LikeResult struct {
	Success    bool  `json:"success"`
	Like       Like  `json:"like"`
	IsLiked    bool  `json:"is_liked"`
	LikesCount int64 `json:"likes_count" validate:"gte=0"`
}

// Follow is a follow row
type Follow struct {
	FollowerID  string    `json:"follower_id" validate:"required"`
	FollowingID string    `json:"following_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowResult is returned by POST /follows
type FollowResult struct {
	Success bool   `json:"success"`
	Follow  Follow `json:"follow"`
}

// User is a user with aggregate counts
type User struct {
	ID             string    `json:"id" validate:"required"`
	Username       string    `json:"username" validate:"required"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url"`
	PostsCount     int64     `json:"posts_count" validate:"gte=0"`
	FollowersCount int64     `json:"followers_count" validate:"gte=0"`
	FollowingCount int64     `json:"following_count" validate:"gte=0"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserProfile is a profile header as seen by the viewer
type UserProfile struct {
	User         User `json:"user"`
	IsFollowing  bool `json:"isFollowing"`
	IsOwnProfile bool `json:"isOwnProfile"`
}

// UserSearch is returned by GET /users/search
type UserSearch struct {
	Users []User `json:"users" validate:"dive"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
