package models

// PostStats is a row of the post_stats view. Counts are computed on read.
type PostStats struct {
	PostID        string `gorm:"column:post_id" json:"post_id"`
	LikesCount    int64  `gorm:"column:likes_count" json:"likes_count"`
	CommentsCount int64  `gorm:"column:comments_count" json:"comments_count"`
}

func (PostStats) TableName() string {
	return "post_stats"
}

// UserStats is a row of the user_stats view
type UserStats struct {
	UserID         string `gorm:"column:user_id" json:"user_id"`
	PostsCount     int64  `gorm:"column:posts_count" json:"posts_count"`
	FollowersCount int64  `gorm:"column:followers_count" json:"followers_count"`
	FollowingCount int64  `gorm:"column:following_count" json:"following_count"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// AllModels lists every table in migration order
func AllModels() []any {
	return []any{
		&User{},
		&Post{},
		&Like{},
		&Comment{},
		&Follow{},
	}
}
