package auth

import (
	"context"
	"sync"

	"github.com/zfogg/picfeed/internal/models"
)

// MockAuthenticator maps fixed tokens to users for testing
type MockAuthenticator struct {
	mu sync.Mutex

	Users map[string]*models.User // keyed by token
	Calls int
	// Err, when set, is returned for every token (simulates the user store failing)
	Err error
}

// NewMockAuthenticator creates a mock with no known tokens
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{Users: make(map[string]*models.User)}
}

// AddToken registers token as belonging to user
func (m *MockAuthenticator) AddToken(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[token] = user
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	user, ok := m.Users[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return user, nil
}

var _ Authenticator = (*MockAuthenticator)(nil)
