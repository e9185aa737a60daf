package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/feed"
	"github.com/zfogg/picfeed/pkg/interaction"
	"github.com/zfogg/picfeed/pkg/prompter"
	"github.com/zfogg/picfeed/pkg/service"
)

var browseLiked bool

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the feed one post at a time",
	Long: `Browse the feed interactively.

  j / k   next / previous post
  l       like or unlike
  c       comment
  v       load all comments
  d       delete (your own posts)
  m       load more posts
  r       refresh
  q       quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		me, err := service.CurrentAuthor()
		if err != nil {
			return err
		}

		fetch := feed.GlobalFeed("")
		if browseLiked {
			fetch = feed.LikedPosts()
		}

		b := service.NewBrowser(service.BrowseOptions{
			Fetch:    fetch,
			API:      interaction.Remote(),
			Detail:   api.GetPost,
			Me:       me,
			PageSize: pageSize(),
			Keys:     prompter.ReadKey,
			Prompt:   prompter.PromptString,
			Confirm:  prompter.PromptConfirm,
		})
		return b.Run(cmd.Context())
	},
}

func init() {
	browseCmd.Flags().BoolVar(&browseLiked, "liked", false, "Browse posts you liked")
	browseCmd.Flags().IntVar(&feedLimit, "limit", 0, "Posts per page (1-50, default from config)")
}
