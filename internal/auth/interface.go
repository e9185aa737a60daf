package auth

import (
	"context"

	"github.com/zfogg/picfeed/internal/models"
)

// Authenticator resolves a bearer token to a local user.
// This enables mocking for unit tests without a real identity provider.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Ensure Service implements Authenticator
var _ Authenticator = (*Service)(nil)
