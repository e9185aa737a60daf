package api

import (
	"context"
	"net/http"

	"github.com/zfogg/picfeed/pkg/logger"
)

// LikePost likes a post; an existing like is a CONFLICT
func LikePost(ctx context.Context, postID string) (*LikeResult, error) {
	logger.Debug("Liking post", "post", postID)

	var result LikeResult
	req := newRequest(ctx).SetBody(map[string]string{"post_id": postID})
	if err := send(req, http.MethodPost, "/api/v1/likes", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnlikePost removes the caller's like; a missing like is NOT_FOUND
func UnlikePost(ctx context.Context, postID string) (*LikeResult, error) {
	logger.Debug("Unliking post", "post", postID)

	var result LikeResult
	req := newRequest(ctx).SetBody(map[string]string{"post_id": postID})
	if err := send(req, http.MethodDelete, "/api/v1/likes", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateComment adds a comment to a post
func CreateComment(ctx context.Context, postID, content string) (*Comment, error) {
	logger.Debug("Creating comment", "post", postID)

	var comment Comment
	req := newRequest(ctx).SetBody(map[string]string{"post_id": postID, "content": content})
	if err := send(req, http.MethodPost, "/api/v1/comments", &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment deletes one of the caller's comments
func DeleteComment(ctx context.Context, commentID string) error {
	req := newRequest(ctx).SetBody(map[string]string{"comment_id": commentID})
	return send(req, http.MethodDelete, "/api/v1/comments", &successResponse{})
}

// Follow follows a user
func Follow(ctx context.Context, userID string) (*FollowResult, error) {
	logger.Debug("Following user", "user", userID)

	var result FollowResult
	req := newRequest(ctx).SetBody(map[string]string{"following_id": userID})
	if err := send(req, http.MethodPost, "/api/v1/follows", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Unfollow stops following a user
func Unfollow(ctx context.Context, userID string) error {
	logger.Debug("Unfollowing user", "user", userID)

	req := newRequest(ctx).SetBody(map[string]string{"following_id": userID})
	return send(req, http.MethodDelete, "/api/v1/follows", &successResponse{})
}
