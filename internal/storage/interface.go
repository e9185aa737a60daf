package storage

import (
	"context"
	"time"
)

// ImageStore stores post images and removes them again.
// This interface allows for easy mocking in tests
type ImageStore interface {
	UploadImage(ctx context.Context, image *Image, userID string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements ImageStore
var _ ImageStore = (*S3Uploader)(nil)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectLister enumerates stored objects under a key prefix
type ObjectLister interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

var (
	_ ObjectLister = (*S3Uploader)(nil)
	_ ObjectLister = (*MockImageStore)(nil)
)
