package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// =============================================================================
// IMAGE VALIDATION TESTS
// =============================================================================

func TestNewImage(t *testing.T) {
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	webpHeader := append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 20)...)

	tests := []struct {
		name    string
		data    []byte
		wantExt string
		wantErr error
	}{
		{"png", pngBytes(t), ".png", nil},
		{"jpeg", jpegHeader, ".jpg", nil},
		{"gif", gifHeader, ".gif", nil},
		{"webp", webpHeader, ".webp", nil},
		{"text", []byte("hello, world"), "", ErrUnsupportedImage},
		{"svg is not accepted", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "", ErrUnsupportedImage},
		{"empty", nil, "", ErrEmptyImage},
		{"too large", append(pngBytes(t), make([]byte, MaxImageSize)...), "", ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, img.Extension)
			assert.True(t, strings.HasPrefix(img.ContentType, "image/"))
			assert.Equal(t, int64(len(tt.data)), img.Size())
		})
	}
}

func TestNewImageAcceptsExactLimit(t *testing.T) {
	data := pngBytes(t)
	data = append(data, make([]byte, MaxImageSize-len(data))...)
	img, err := NewImage(data)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxImageSize), img.Size())
}

// =============================================================================
// KEY AND URL TESTS
// =============================================================================

func TestImageKey(t *testing.T) {
	key := ImageKey("user-1", ".png")
	assert.True(t, strings.HasPrefix(key, "posts/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, ImageKey("user-1", ".png"), "keys are unique per upload")
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/posts/a.png", PublicURL("https://cdn.example.com/", "posts/a.png"))
	assert.Equal(t, "https://cdn.example.com/posts/a.png", PublicURL("https://cdn.example.com", "posts/a.png"))
}

// =============================================================================
// MOCK STORE TESTS
// =============================================================================

func TestMockImageStore(t *testing.T) {
	store := NewMockImageStore()
	img, err := NewImage(pngBytes(t))
	require.NoError(t, err)

	res, err := store.UploadImage(context.Background(), img, "user-1")
	require.NoError(t, err)
	assert.True(t, store.Has(res.Key))
	assert.Equal(t, PublicURL(store.BaseURL, res.Key), res.URL)

	require.NoError(t, store.DeleteFile(context.Background(), res.Key))
	assert.Equal(t, 0, store.Count())
	assert.ErrorIs(t, store.DeleteFile(context.Background(), res.Key), ErrObjectNotFound)

	store.UploadErr = errors.New("boom")
	_, err = store.UploadImage(context.Background(), img, "user-1")
	assert.Error(t, err)
	assert.Equal(t, 2, store.Uploads)
}
