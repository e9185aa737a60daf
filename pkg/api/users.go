package api

import (
	"context"
	"net/http"
)

// GetUser fetches a profile header
func GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	req := newRequest(ctx).SetPathParam("id", userID)
	if err := send(req, http.MethodGet, "/api/v1/users/{id}", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SearchUsers matches usernames and display names
func SearchUsers(ctx context.Context, query string) (*UserSearch, error) {
	var result UserSearch
	req := newRequest(ctx).SetQueryParam("q", query)
	if err := send(req, http.MethodGet, "/api/v1/users/search", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMe fetches the caller; the first call for a new identity creates the user
func GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := send(newRequest(ctx), http.MethodGet, "/api/v1/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
