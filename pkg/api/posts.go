package api

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/zfogg/picfeed/pkg/logger"
)

// GetFeed fetches a page of the global feed, or one user's posts when userID is set
func GetFeed(ctx context.Context, limit, offset int, userID string) (*PostPage, error) {
	logger.Debug("Fetching feed", "limit", limit, "offset", offset, "user", userID)

	req := newRequest(ctx).SetQueryParams(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	if userID != "" {
		req.SetQueryParam("userId", userID)
	}

	var page PostPage
	if err := send(req, http.MethodGet, "/api/v1/posts", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLikedPosts fetches a page of posts the caller liked
func GetLikedPosts(ctx context.Context, limit, offset int) (*PostPage, error) {
	logger.Debug("Fetching liked posts", "limit", limit, "offset", offset)

	req := newRequest(ctx).SetQueryParams(map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})

	var page PostPage
	if err := send(req, http.MethodGet, "/api/v1/likes/user", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a post and all of its comments
func GetPost(ctx context.Context, postID string) (*PostDetail, error) {
	var detail PostDetail
	req := newRequest(ctx).SetPathParam("id", postID)
	if err := send(req, http.MethodGet, "/api/v1/posts/{id}", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreatePost uploads an image with an optional caption
func CreatePost(ctx context.Context, filename string, image io.Reader, caption string) (*CreatedPost, error) {
	logger.Debug("Creating post", "file", filename)

	req := newRequest(ctx).SetFileReader("file", filename, image)
	if caption != "" {
		req.SetFormData(map[string]string{"caption": caption})
	}

	var created CreatedPost
	if err := send(req, http.MethodPost, "/api/v1/posts", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePost deletes one of the caller's posts
func DeletePost(ctx context.Context, postID string) error {
	req := newRequest(ctx).SetPathParam("id", postID)
	return send(req, http.MethodDelete, "/api/v1/posts/{id}", &successResponse{})
}
