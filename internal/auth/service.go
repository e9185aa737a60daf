package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

// IdentityClaims are the IdP token claims the API reads
type IdentityClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
	Nickname          string `json:"nickname,omitempty"`
	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
}

// Identity maps the claims onto the fields used to provision a user
func (c *IdentityClaims) Identity() repository.Identity {
	username := c.PreferredUsername
	if username == "" {
		username = c.Nickname
	}
	if username == "" {
		username = c.Name
	}
	return repository.Identity{
		Subject:     c.Subject,
		Username:    username,
		DisplayName: c.Name,
		AvatarURL:   c.Picture,
	}
}

// UserIndexer makes newly provisioned users searchable
type UserIndexer interface {
	IndexUser(ctx context.Context, user *models.User) error
}

// Service verifies IdP-issued tokens and lazily provisions local users
type Service struct {
	secret   []byte
	issuer   string
	audience string
	users    repository.UserRepository
	indexer  UserIndexer
}

// NewService creates a new authentication service. issuer and audience are
// only enforced when non-empty.
func NewService(secret []byte, issuer, audience string, users repository.UserRepository) *Service {
	return &Service{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		users:    users,
	}
}

// SetIndexer registers an optional search index for provisioned users
func (s *Service) SetIndexer(indexer UserIndexer) {
	s.indexer = indexer
}

// VerifyToken checks the signature and registered claims of an IdP token
func (s *Service) VerifyToken(tokenString string) (*IdentityClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// Authenticate verifies the token and returns the matching local user,
// creating it the first time the subject is seen
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.SyncUser(ctx, claims.Identity())
}

// SyncUser returns the local user for an identity, provisioning it on first sight
func (s *Service) SyncUser(ctx context.Context, identity repository.Identity) (*models.User, error) {
	user, err := s.users.GetBySubject(ctx, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user, err = s.users.UpsertFromIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	logger.Log.Info("Provisioned user from identity provider",
		logger.WithUserID(user.ID),
		zap.String("username", user.Username),
	)

	// search is optional; the user can still log in and `migrate reindex` catches up
	if s.indexer != nil {
		if err := s.indexer.IndexUser(ctx, user); err != nil {
			logger.Log.Warn("Failed to index user for search", logger.WithUserID(user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// IssueToken signs a token the way the IdP would. Used by the seeder and tests
// so development clients can log in without a live identity provider.
func (s *Service) IssueToken(identity repository.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PreferredUsername: identity.Username,
		Name:              identity.DisplayName,
		Picture:           identity.AvatarURL,
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
