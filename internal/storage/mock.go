package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrObjectNotFound is returned by MockImageStore.DeleteFile for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// MockImageStore is an in-memory ImageStore for tests
type MockImageStore struct {
	mu sync.Mutex

	BaseURL  string
	Objects  map[string][]byte
	Modified map[string]time.Time

	// Configurable failures
	UploadErr error
	DeleteErr error

	Uploads int
	Deletes []string
}

// NewMockImageStore creates an empty in-memory store
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		BaseURL:  "https://cdn.test",
		Objects:  make(map[string][]byte),
		Modified: make(map[string]time.Time),
	}
}

func (m *MockImageStore) UploadImage(ctx context.Context, image *Image, userID string) (*UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads++
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := ImageKey(userID, image.Extension)
	m.Objects[key] = image.Data
	m.Modified[key] = time.Now()
	return &UploadResult{
		Key:    key,
		URL:    PublicURL(m.BaseURL, key),
		Bucket: "mock",
		Size:   image.Size(),
	}, nil
}

func (m *MockImageStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deletes = append(m.Deletes, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.Objects, key)
	delete(m.Modified, key)
	return nil
}

// Put stores data under key as if it were written at modified
func (m *MockImageStore) Put(key string, data []byte, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Modified[key] = modified
}

func (m *MockImageStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []ObjectInfo
	for key, data := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, ObjectInfo{Key: key, Size: int64(len(data)), LastModified: m.Modified[key]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Has reports whether key is stored
func (m *MockImageStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}

// Count returns the number of stored objects
func (m *MockImageStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

var _ ImageStore = (*MockImageStore)(nil)
