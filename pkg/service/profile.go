package service

import (
	"context"
	"strings"

	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/formatter"
	"github.com/zfogg/picfeed/pkg/output"
)

// ProfileGridSize is how many posts the profile grid shows
const ProfileGridSize = 12

type ProfileService struct{}

// NewProfileService creates a new profile service
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

type profileView struct {
	Profile *api.UserProfile `json:"profile"`
	Posts   []api.Post       `json:"posts"`
}

// Show prints a profile header and a grid of the user's latest posts
func (s *ProfileService) Show(ctx context.Context, userID string) error {
	profile, err := api.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	page, err := api.GetFeed(ctx, ProfileGridSize, 0, userID)
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.Print("", profileView{Profile: profile, Posts: page.Data})
	}

	output.Println(formatter.Profile(*profile))
	if len(page.Data) == 0 {
		output.PrintInfo("No posts yet.")
		return nil
	}
	for _, row := range formatter.Grid(page.Data) {
		output.Println(strings.Join(row, "   "))
	}
	return nil
}

// Search lists users matching query
func (s *ProfileService) Search(ctx context.Context, query string) error {
	res, err := api.SearchUsers(ctx, query)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print("", res)
	}
	if len(res.Users) == 0 {
		output.PrintInfo("No users found for %q", query)
		return nil
	}
	for _, u := range res.Users {
		output.Println(formatter.User(u), formatter.Faint.Sprint(u.ID))
	}
	return nil
}
