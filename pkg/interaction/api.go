package interaction

import (
	"context"

	"github.com/zfogg/picfeed/pkg/api"
)

// API is the subset of the HTTP client the controller calls
type API interface {
	LikePost(ctx context.Context, postID string) (*api.LikeResult, error)
	UnlikePost(ctx context.Context, postID string) (*api.LikeResult, error)
	CreateComment(ctx context.Context, postID, content string) (*api.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	DeletePost(ctx context.Context, postID string) error
	Follow(ctx context.Context, userID string) (*api.FollowResult, error)
	Unfollow(ctx context.Context, userID string) error
}

type remote struct{}

// Remote returns the API backed by pkg/api
func Remote() API { return remote{} }

func (remote) LikePost(ctx context.Context, postID string) (*api.LikeResult, error) {
	return api.LikePost(ctx, postID)
}

func (remote) UnlikePost(ctx context.Context, postID string) (*api.LikeResult, error) {
	return api.UnlikePost(ctx, postID)
}

func (remote) CreateComment(ctx context.Context, postID, content string) (*api.Comment, error) {
	return api.CreateComment(ctx, postID, content)
}

func (remote) DeleteComment(ctx context.Context, commentID string) error {
	return api.DeleteComment(ctx, commentID)
}

func (remote) DeletePost(ctx context.Context, postID string) error {
	return api.DeletePost(ctx, postID)
}

func (remote) Follow(ctx context.Context, userID string) (*api.FollowResult, error) {
	return api.Follow(ctx, userID)
}

func (remote) Unfollow(ctx context.Context, userID string) error {
	return api.Unfollow(ctx, userID)
}
