package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/zfogg/picfeed/internal/telemetry"
)

// S3Uploader handles image uploads to AWS S3 (or any S3-compatible store)
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// UploadResult contains the result of an S3 upload
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// S3Options configures NewS3Uploader
type S3Options struct {
	Region  string
	Bucket  string
	BaseURL string // public URL prefix for stored objects (CDN or bucket URL)
	// Endpoint overrides the S3 endpoint, e.g. for MinIO or LocalStack
	Endpoint string
}

// NewS3Uploader creates a new S3 uploader whose HTTP calls are traced
func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithHTTPClient(telemetry.NewInstrumentedHTTPClient(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:  client,
		bucket:  opts.Bucket,
		region:  opts.Region,
		baseURL: opts.BaseURL,
	}, nil
}

// UploadImage stores a validated image under posts/{userID}/{uuid}{ext}
func (u *S3Uploader) UploadImage(ctx context.Context, image *Image, userID string) (*UploadResult, error) {
	key := ImageKey(userID, image.Extension)

	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image.Data),
		ContentType: aws.String(image.ContentType),

		// images are immutable once written
		CacheControl: aws.String("max-age=31536000, immutable"),

		Metadata: map[string]string{
			"user-id":          userID,
			"upload-timestamp": time.Now().UTC().Format(time.RFC3339),
			"file-type":        "image",
		},
	}

	if _, err := u.client.PutObject(ctx, putObjectInput); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:    key,
		URL:    PublicURL(u.baseURL, key),
		Bucket: u.bucket,
		Region: u.region,
		Size:   image.Size(),
	}, nil
}

// DeleteFile deletes a file from S3
func (u *S3Uploader) DeleteFile(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

// ListObjects pages through every object whose key starts with prefix
func (u *S3Uploader) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(u.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(u.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (u *S3Uploader) CheckBucketAccess(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}

	return nil
}

// ImageKey builds the object key for a new post image
func ImageKey(userID, extension string) string {
	return fmt.Sprintf("posts/%s/%s%s", userID, uuid.NewString(), extension)
}

// PublicURL joins the public base URL and an object key
func PublicURL(baseURL, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), key)
}
