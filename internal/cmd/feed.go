package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/config"
	"github.com/zfogg/picfeed/pkg/feed"
	"github.com/zfogg/picfeed/pkg/service"
)

var (
	feedLimit int
	feedPages int
	feedUser  string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the latest posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		title := "Feed"
		if feedUser != "" {
			title = "Posts by " + feedUser
		}
		return service.NewFeedService(pageSize()).Show(cmd.Context(), title, feed.GlobalFeed(feedUser), feedPages)
	},
}

var likedCmd = &cobra.Command{
	Use:   "liked",
	Short: "Show posts you liked",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewFeedService(pageSize()).Show(cmd.Context(), "Liked posts", feed.LikedPosts(), feedPages)
	},
}

// pageSize prefers --limit over feed.page_size
func pageSize() int {
	if feedLimit > 0 {
		return feedLimit
	}
	return config.GetInt("feed.page_size")
}

func init() {
	for _, c := range []*cobra.Command{feedCmd, likedCmd} {
		c.Flags().IntVar(&feedLimit, "limit", 0, "Posts per page (1-50, default from config)")
		c.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to load")
	}
	feedCmd.Flags().StringVar(&feedUser, "user", "", "Only show posts by this user id")
}
