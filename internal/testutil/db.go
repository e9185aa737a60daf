// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/picfeed/internal/database"
	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys on
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    "file::memory:?_foreign_keys=on",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a random subject
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		IDPSubject:  "idp|" + uuid.NewString(),
		Username:    username,
		DisplayName: fmt.Sprintf("%s display", username),
		AvatarURL:   fmt.Sprintf("https://cdn.example.com/avatars/%s.png", username),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post authored by userID at the given time
func CreatePost(t testing.TB, db *gorm.DB, userID string, createdAt time.Time) *models.Post {
	t.Helper()

	caption := "caption " + createdAt.Format(time.RFC3339Nano)
	id := uuid.NewString()
	post := &models.Post{
		ID:        id,
		UserID:    userID,
		ImageURL:  "https://cdn.example.com/posts/" + id + ".jpg",
		ImageKey:  "posts/" + userID + "/" + id + ".jpg",
		Caption:   &caption,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Omit("User").Create(post).Error)
	return post
}

// CreateComment inserts a comment at the given time
func CreateComment(t testing.TB, db *gorm.DB, postID, userID, content string, createdAt time.Time) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Omit("User", "Post").Create(comment).Error)
	return comment
}

// Like inserts a like row
func Like(t testing.TB, db *gorm.DB, postID, userID string) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Post").Create(&models.Like{PostID: postID, UserID: userID}).Error)
}
