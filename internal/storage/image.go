package storage

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted upload (5 MiB)
const MaxImageSize = 5 << 20

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	ErrUnsupportedImage = errors.New("unsupported image type: must be JPEG, PNG, GIF or WebP")
)

// allowedImageTypes maps accepted MIME types to the extension used in object keys
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a validated upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Size returns the image size in bytes
func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// NewImage sniffs data and accepts it only if it is a supported image within the size limit.
// The declared content type of the upload is never trusted.
func NewImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if ext, ok := allowedImageTypes[mt.String()]; ok {
			return &Image{Data: data, ContentType: mt.String(), Extension: ext}, nil
		}
	}
	return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedImage, detected.String())
}
