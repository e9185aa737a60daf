package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/testutil"
	"gorm.io/gorm"
)

var testSecret = []byte("test-idp-secret")

// AuthServiceTestSuite contains auth service tests
type AuthServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	authService *Service
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.authService = NewService(testSecret, "https://idp.test/", "picfeed", repository.NewUserRepository(suite.db))
}

func (suite *AuthServiceTestSuite) TestAuthenticateProvisionsOnce() {
	t := suite.T()
	ctx := context.Background()

	token, err := suite.authService.IssueToken(repository.Identity{
		Subject:     "idp|42",
		Username:    "river",
		DisplayName: "River Song",
		AvatarURL:   "https://cdn.test/river.png",
	}, time.Hour)
	require.NoError(t, err)

	user, err := suite.authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "river", user.Username)
	assert.Equal(t, "River Song", user.DisplayName)
	assert.Equal(t, "idp|42", user.IDPSubject)

	again, err := suite.authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, suite.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func (suite *AuthServiceTestSuite) TestRejectsBadTokens() {
	t := suite.T()
	ctx := context.Background()

	sign := func(secret []byte, claims jwt.Claims, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	valid := func() IdentityClaims {
		return IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp|1",
			Issuer:    "https://idp.test/",
			Audience:  jwt.ClaimStrings{"picfeed"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := valid()
	wrongIssuer.Issuer = "https://evil.test/"

	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	noSubject := valid()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", sign([]byte("other"), valid(), jwt.SigningMethodHS256), ErrInvalidToken},
		{"expired", sign(testSecret, expired, jwt.SigningMethodHS256), ErrInvalidToken},
		{"wrong issuer", sign(testSecret, wrongIssuer, jwt.SigningMethodHS256), ErrInvalidToken},
		{"wrong audience", sign(testSecret, wrongAudience, jwt.SigningMethodHS256), ErrInvalidToken},
		{"no expiry", sign(testSecret, noExpiry, jwt.SigningMethodHS256), ErrInvalidToken},
		{"no subject", sign(testSecret, noSubject, jwt.SigningMethodHS256), ErrMissingSubject},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.authService.Authenticate(ctx, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, suite.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "rejected tokens never provision users")
}

type recordingIndexer struct {
	indexed []string
	err     error
}

func (r *recordingIndexer) IndexUser(ctx context.Context, user *models.User) error {
	r.indexed = append(r.indexed, user.Username)
	return r.err
}

func (suite *AuthServiceTestSuite) TestProvisionedUsersAreIndexed() {
	t := suite.T()
	ctx := context.Background()
	indexer := &recordingIndexer{}
	suite.authService.SetIndexer(indexer)

	token, err := suite.authService.IssueToken(repository.Identity{Subject: "idp|9", Username: "fern"}, time.Hour)
	require.NoError(t, err)

	_, err = suite.authService.Authenticate(ctx, token)
	require.NoError(t, err)
	_, err = suite.authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{"fern"}, indexer.indexed, "only first sight indexes")

	indexer.err = assert.AnError
	token, err = suite.authService.IssueToken(repository.Identity{Subject: "idp|10", Username: "ivy"}, time.Hour)
	require.NoError(t, err)
	user, err := suite.authService.Authenticate(ctx, token)
	require.NoError(t, err, "an unreachable index does not block login")
	assert.Equal(t, "ivy", user.Username)
}

func (suite *AuthServiceTestSuite) TestStoreFailureIsNotATokenError() {
	t := suite.T()
	token, err := suite.authService.IssueToken(repository.Identity{Subject: "idp|7", Username: "moss"}, time.Hour)
	require.NoError(t, err)

	sqlDB, err := suite.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = suite.authService.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrMissingSubject)
}

func (suite *AuthServiceTestSuite) TestIdentityFallbacks() {
	claims := IdentityClaims{Nickname: "nick", Name: "Full Name"}
	assert.Equal(suite.T(), "nick", claims.Identity().Username)

	claims = IdentityClaims{Name: "Full Name"}
	assert.Equal(suite.T(), "Full Name", claims.Identity().Username)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestMockAuthenticator(t *testing.T) {
	m := NewMockAuthenticator()
	user := &models.User{ID: "u1"}
	m.AddToken("tok", user)

	got, err := m.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Same(t, user, got)

	_, err = m.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 2, m.Calls)
}
