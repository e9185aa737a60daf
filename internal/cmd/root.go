// Package cmd holds the picfeed command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/client"
	"github.com/zfogg/picfeed/pkg/config"
	"github.com/zfogg/picfeed/pkg/credentials"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
	"github.com/zfogg/picfeed/pkg/logger"
	"github.com/zfogg/picfeed/pkg/output"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	apiURL     string
)

var rootCmd = &cobra.Command{
	Use:   "picfeed",
	Short: "picfeed - share photos from the terminal",
	Long: `picfeed is a command-line client for the picfeed photo feed.
Browse the feed, post images, like, comment and follow people.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		logger.Init(verbose)

		if !output.ValidateOutputFormat(outputFmt) {
			return fmt.Errorf("invalid --output %q: use text, json or table", outputFmt)
		}
		if cmd.Flags().Changed("output") {
			config.Set("output.format", outputFmt)
		}
		if apiURL != "" {
			config.Set("api.base_url", apiURL)
		}

		client.Init()
		return applyToken()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

// applyToken sends PICFEED_TOKEN if set, else the saved login
func applyToken() error {
	if token := config.GetString("auth.token"); token != "" {
		client.SetAuthToken(token)
		return nil
	}
	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Ignoring unreadable credentials", "error", err)
		return nil
	}
	if creds.IsValid() {
		client.SetAuthToken(creds.AccessToken)
	}
	return nil
}

// Execute runs the root command. Interrupts cancel the command's context so
// in-flight requests are abandoned and their responses dropped.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var desc *clierrors.Error
		if errors.As(err, &desc) {
			output.PrintError("%s", clierrors.Format(desc))
		} else {
			output.PrintError("%v", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/picfeed/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides api.base_url)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(likedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)
}
