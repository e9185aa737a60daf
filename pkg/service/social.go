package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/formatter"
	"github.com/zfogg/picfeed/pkg/interaction"
	"github.com/zfogg/picfeed/pkg/output"
)

// SocialService handles likes, comments and follows from one-shot commands
type SocialService struct{}

// NewSocialService creates a new social service
func NewSocialService() *SocialService {
	return &SocialService{}
}

// Like likes a post
func (s *SocialService) Like(ctx context.Context, postID string) (*api.LikeResult, error) {
	res, err := api.LikePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return res, s.printLike("Liked", res)
}

// Unlike removes the caller's like
func (s *SocialService) Unlike(ctx context.Context, postID string) (*api.LikeResult, error) {
	res, err := api.UnlikePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return res, s.printLike("Unliked", res)
}

func (s *SocialService) printLike(verb string, res *api.LikeResult) error {
	if output.IsJSON() {
		return output.Print("", res)
	}
	output.PrintSuccess("%s (%s)", verb, formatter.Count(res.LikesCount, "like", "likes"))
	return nil
}

// Comment adds a comment to a post
func (s *SocialService) Comment(ctx context.Context, postID, content string) (*api.Comment, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > interaction.MaxCommentLength {
		return nil, fmt.Errorf("comment must be between 1 and %d characters", interaction.MaxCommentLength)
	}

	c, err := api.CreateComment(ctx, postID, content)
	if err != nil {
		return nil, err
	}
	if output.IsJSON() {
		return c, output.Print("", c)
	}
	output.PrintSuccess("Commented %s", c.ID)
	return c, nil
}

// DeleteComment deletes one of the caller's comments
func (s *SocialService) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := api.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	output.PrintSuccess("Deleted comment %s from post %s", commentID, postID)
	return nil
}

// Follow follows a user
func (s *SocialService) Follow(ctx context.Context, userID string) error {
	res, err := api.Follow(ctx, userID)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print("", res)
	}
	output.PrintSuccess("Following %s", userID)
	return nil
}

// Unfollow stops following a user
func (s *SocialService) Unfollow(ctx context.Context, userID string) error {
	if err := api.Unfollow(ctx, userID); err != nil {
		return err
	}
	output.PrintSuccess("Unfollowed %s", userID)
	return nil
}
