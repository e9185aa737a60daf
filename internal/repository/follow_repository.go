package repository

import (
	"context"

	"github.com/zfogg/picfeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository handles the follow graph
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", followingID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error; err != nil {
		return nil, translate(err)
	}
	return follow, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}
