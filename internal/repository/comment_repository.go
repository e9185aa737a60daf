package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository handles comments
type CommentRepository interface {
	// Create validates content (1..MaxCommentLength after trimming) and stores the comment
	Create(ctx context.Context, postID, userID, content string) (*models.Comment, error)
	// Delete removes a comment; ErrNotFound if missing, ErrForbidden if userID is not the author
	Delete(ctx context.Context, commentID, userID string) (*models.Comment, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ValidateCommentContent trims content and checks its length in characters
func ValidateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return "", fmt.Errorf("comment cannot be empty: %w", ErrValidation)
	}
	if n > models.MaxCommentLength {
		return "", fmt.Errorf("comment exceeds %d characters: %w", models.MaxCommentLength, ErrValidation)
	}
	return content, nil
}

func (r *commentRepository) Create(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	content, err := ValidateCommentContent(content)
	if err != nil {
		return nil, err
	}

	if err := postExists(ctx, r.db, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, translate(err)
	}

	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&comment.User).Error; err != nil {
		return nil, translate(err)
	}
	return comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) CountForPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
