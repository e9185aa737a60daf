package repository

import (
	"context"

	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository handles likes
type LikeRepository interface {
	// Like records a like; ErrNotFound if the post is gone, ErrConflict if already liked
	Like(ctx context.Context, userID, postID string) (*models.Like, error)
	// Unlike removes a like; ErrNotFound if there was none
	Unlike(ctx context.Context, userID, postID string) (*models.Like, error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Like(ctx context.Context, userID, postID string) (*models.Like, error) {
	if err := postExists(ctx, r.db, postID); err != nil {
		return nil, err
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error; err != nil {
		return nil, translate(err)
	}
	return like, nil
}

func (r *likeRepository) Unlike(ctx context.Context, userID, postID string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		return nil, translate(err)
	}

	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &like, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CountForPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func postExists(ctx context.Context, db *gorm.DB, postID string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
