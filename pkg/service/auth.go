package service

import (
	"context"
	"errors"
	"strings"

	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/client"
	"github.com/zfogg/picfeed/pkg/credentials"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/output"
)

// ErrNotLoggedIn is returned by commands that need a saved token
var ErrNotLoggedIn = errors.New("not logged in: run `picfeed login --token <token>`")

type AuthService struct{}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login verifies an identity-provider token against /me and saves it. The
// first /me for a new identity creates the user on the server.
func (s *AuthService) Login(ctx context.Context, token string) (*api.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	client.SetAuthToken(token)
	me, err := api.GetMe(ctx)
	if err != nil {
		client.ClearAuthToken()
		return nil, err
	}

	creds := &credentials.Credentials{
		AccessToken: token,
		UserID:      me.ID,
		Username:    me.Username,
		DisplayName: me.DisplayName,
		AvatarURL:   me.AvatarURL,
	}
	if err := credentials.Save(creds); err != nil {
		logger.Error("Failed to save credentials", "error", err)
		return nil, err
	}

	logger.Info("Logged in", "user", me.Username)
	if output.IsJSON() {
		return me, output.Print("", me)
	}
	output.PrintSuccess("Logged in as @%s", me.Username)
	return me, nil
}

// Logout forgets the saved token
func (s *AuthService) Logout() error {
	if err := credentials.Delete(); err != nil {
		return err
	}
	client.ClearAuthToken()
	output.PrintSuccess("Logged out")
	return nil
}

// WhoAmI asks the server who the current token belongs to
func (s *AuthService) WhoAmI(ctx context.Context) (*api.User, error) {
	me, err := api.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	if output.IsJSON() {
		return me, output.Print("", me)
	}
	output.Printf("@%s (%s)\n", me.Username, me.ID)
	if me.DisplayName != "" {
		output.Println(me.DisplayName)
	}
	return me, nil
}

// CurrentAuthor returns the logged-in user as a comment author
func CurrentAuthor() (api.Author, error) {
	creds, err := credentials.Load()
	if err != nil {
		return api.Author{}, err
	}
	if !creds.IsValid() {
		return api.Author{}, ErrNotLoggedIn
	}
	return api.Author{
		ID:          creds.UserID,
		Username:    creds.Username,
		DisplayName: creds.DisplayName,
		AvatarURL:   creds.AvatarURL,
	}, nil
}
