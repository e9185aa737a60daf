package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/internal/cleanup"
	"github.com/zfogg/picfeed/internal/config"
	"github.com/zfogg/picfeed/internal/database"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/search"
	"github.com/zfogg/picfeed/internal/storage"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the picfeed database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update tables, indexes and aggregate views",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(*config.Config) error {
			logger.Log.Info("Running migrations...")
			return database.Migrate(database.DB)
		})
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the Elasticsearch users index from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config) error {
			if cfg.ElasticsearchURL == "" {
				return fmt.Errorf("ELASTICSEARCH_URL is not set")
			}
			ctx := cmd.Context()
			client, err := search.NewClient(ctx, search.Options{URL: cfg.ElasticsearchURL})
			if err != nil {
				return err
			}
			if err := client.EnsureIndex(ctx); err != nil {
				return err
			}
			n, err := client.ReindexUsers(ctx, database.DB)
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d users\n", n)
			return err
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored images that no post refers to (one pass)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config) error {
			ctx := cmd.Context()
			images, err := storage.NewS3Uploader(ctx, storage.S3Options{
				Region:   cfg.AWSRegion,
				Bucket:   cfg.AWSBucket,
				BaseURL:  cfg.CDNBaseURL,
				Endpoint: cfg.AWSEndpoint,
			})
			if err != nil {
				return err
			}
			res, err := cleanup.NewOrphanSweeper(database.DB, images, 0, cfg.SweepGrace).Sweep(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, orphans %d, deleted %d, failed %d\n",
				res.Scanned, res.Orphans, res.Deleted, res.Failed)
			return err
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity and report row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(*config.Config) error {
			if err := database.Health(); err != nil {
				return err
			}
			for _, table := range []string{"users", "posts", "likes", "comments", "follows"} {
				var n int64
				if err := database.DB.Table(table).Count(&n).Error; err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s missing (%v)\n", table, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", table, n)
			}
			return nil
		})
	},
}

func withDatabase(fn func(cfg *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer logger.Close()

	if err := database.Initialize(database.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.DatabaseURL,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := fn(cfg); err != nil {
		logger.Log.Error("Migration command failed", zap.Error(err))
		return err
	}
	logger.Log.Info("Done")
	return nil
}

func main() {
	rootCmd.AddCommand(upCmd, statusCmd, reindexCmd, sweepCmd)
	// `migrate` with no subcommand keeps the old behaviour of running up
	rootCmd.RunE = upCmd.RunE

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
