package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/service"
)

var (
	postCaption string
	postForce   bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create, show and delete posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <image>",
	Short: "Post an image (JPEG, PNG, GIF or WebP, up to 5 MiB)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := service.NewPostService().Create(cmd.Context(), args[0], postCaption)
		return err
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a post with all of its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Show(cmd.Context(), args[0])
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Delete(cmd.Context(), args[0], postForce)
	},
}

func init() {
	postCreateCmd.Flags().StringVarP(&postCaption, "caption", "c", "", "Caption (up to 2,200 characters)")
	postDeleteCmd.Flags().BoolVarP(&postForce, "yes", "y", false, "Do not ask for confirmation")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postDeleteCmd)
}
