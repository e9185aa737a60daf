package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/service"
)

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewSocialService().Like(cmd.Context(), args[0])
		return err
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewSocialService().Unlike(cmd.Context(), args[0])
		return err
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add and delete comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <post-id> <text>...",
	Short: "Comment on a post (up to 500 characters)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewSocialService().Comment(cmd.Context(), args[0], strings.Join(args[1:], " "))
		return err
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <post-id> <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService().DeleteComment(cmd.Context(), args[0], args[1])
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService().Follow(cmd.Context(), args[0])
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSocialService().Unfollow(cmd.Context(), args[0])
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Show a profile and its latest posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService().Show(cmd.Context(), args[0])
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by username or display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService().Search(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}
