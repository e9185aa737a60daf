// Package service holds operations that span the database and the object store.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
	"go.uber.org/zap"
)

// ErrInvalidCaption wraps caption validation failures
var ErrInvalidCaption = errors.New("invalid caption")

// PostService creates and deletes posts. Both operations touch two stores with
// no shared transaction: the image blob and the row are written in sequence and
// a failure on the second step is compensated on a best-effort basis.
type PostService struct {
	posts  repository.PostRepository
	images storage.ImageStore
}

// NewPostService creates a post service
func NewPostService(posts repository.PostRepository, images storage.ImageStore) *PostService {
	return &PostService{posts: posts, images: images}
}

// CreatePost validates the image and caption, uploads the image under
// posts/{userID}/ and inserts the row. If the insert fails the uploaded blob
// is deleted again; a failed cleanup is logged and the insert error returned.
func (s *PostService) CreatePost(ctx context.Context, userID, caption string, data []byte) (*models.Post, error) {
	image, err := storage.NewImage(data)
	if err != nil {
		metrics.Get().ImageRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	normalized, err := util.NormalizeCaption(caption)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCaption, err.Error())
	}

	ctx, span := telemetry.TraceCreatePost(ctx, userID, image.ContentType, image.Size())
	post, err := s.createPost(ctx, userID, normalized, image)
	telemetry.EndSpan(span, err)
	return post, err
}

func (s *PostService) createPost(ctx context.Context, userID string, caption *string, image *storage.Image) (*models.Post, error) {
	upload, err := s.images.UploadImage(ctx, image, userID)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	post := &models.Post{
		UserID:   userID,
		ImageURL: upload.URL,
		ImageKey: upload.Key,
		Caption:  caption,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		// the request context may already be done; cleanup must still run
		if delErr := s.images.DeleteFile(context.WithoutCancel(ctx), upload.Key); delErr != nil {
			metrics.Get().BlobCleanupFailureTotal.WithLabelValues("create").Inc()
			logger.Log.Error("Failed to clean up image after insert failure",
				logger.WithUserID(userID),
				zap.String("key", upload.Key),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	metrics.Get().PostsCreatedTotal.Inc()
	metrics.Get().ImageUploadBytes.Observe(float64(image.Size()))
	logger.Log.Info("Post created",
		logger.WithUserID(userID),
		logger.WithPostID(post.ID),
		zap.Int64("size", image.Size()),
	)
	return post, nil
}

// DeletePost removes a post owned by userID. The blob is deleted first; a blob
// failure is logged and does not stop the row deletion, which cascades to
// likes and comments.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	ctx, span := telemetry.TraceDeletePost(ctx, userID, postID)
	err := s.deletePost(ctx, userID, postID)
	telemetry.EndSpan(span, err)
	return err
}

func (s *PostService) deletePost(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return repository.ErrForbidden
	}

	if post.ImageKey != "" {
		if err := s.images.DeleteFile(ctx, post.ImageKey); err != nil {
			metrics.Get().BlobCleanupFailureTotal.WithLabelValues("delete").Inc()
			logger.Log.Warn("Failed to delete post image, removing row anyway",
				logger.WithPostID(postID),
				zap.String("key", post.ImageKey),
				zap.Error(err),
			)
		}
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	metrics.Get().PostsDeletedTotal.Inc()
	logger.Log.Info("Post deleted", logger.WithUserID(userID), logger.WithPostID(postID))
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "too_large"
	case errors.Is(err, storage.ErrEmptyImage):
		return "empty"
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "unsupported_type"
	default:
		return "other"
	}
}
