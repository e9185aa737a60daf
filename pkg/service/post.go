package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/formatter"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/output"
	"github.com/zfogg/picfeed/pkg/prompter"
)

// MaxCaptionLength matches the server's limit
const MaxCaptionLength = 2200

type PostService struct{}

// NewPostService creates a new post service
func NewPostService() *PostService {
	return &PostService{}
}

// Create uploads an image file. The file is checked locally first so an
// obviously bad upload never leaves the machine.
func (s *PostService) Create(ctx context.Context, path, caption string) (*api.CreatedPost, error) {
	if len([]rune(caption)) > MaxCaptionLength {
		return nil, fmt.Errorf("caption must be at most %d characters", MaxCaptionLength)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	img, err := storage.NewImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("Uploading image", "path", path, "type", img.ContentType, "bytes", img.Size())
	created, err := api.CreatePost(ctx, filepath.Base(path), bytes.NewReader(img.Data), caption)
	if err != nil {
		return nil, err
	}

	if output.IsJSON() {
		return created, output.Print("", created)
	}
	output.PrintSuccess("Posted %s", created.Post.ID)
	output.Println(created.Post.ImageURL)
	return created, nil
}

// Show prints a post with every comment
func (s *PostService) Show(ctx context.Context, postID string) error {
	detail, err := api.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print("", detail)
	}

	now := time.Now()
	output.Println(formatter.Post(detail.Post, now))
	output.Println(formatter.Bold.Sprint("Comments"))
	output.Printf("%s", formatter.Comments(detail.Comments, now))
	return nil
}

// Delete removes one of the caller's posts, asking first unless force is set
func (s *PostService) Delete(ctx context.Context, postID string, force bool) error {
	if !force {
		ok, err := prompter.PromptConfirm(fmt.Sprintf("Delete post %s?", postID))
		if err != nil {
			return err
		}
		if !ok {
			output.PrintInfo("Cancelled")
			return nil
		}
	}
	if err := api.DeletePost(ctx, postID); err != nil {
		return err
	}
	output.PrintSuccess("Deleted post %s", postID)
	return nil
}
