package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/internal/auth"
	"github.com/zfogg/picfeed/internal/config"
	"github.com/zfogg/picfeed/internal/database"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/seed"
	"go.uber.org/zap"
)

var (
	seedValue  int64
	withTokens bool
	tokenTTL   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a development database with fake data",
}

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Seed a development database with realistic volumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd, seed.DevCounts)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Seed a small data set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd, seed.TestCounts)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every seeded user and their content",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}
		defer database.Close()
		defer logger.Close()

		removed, err := seed.NewSeeder(database.DB, seedValue).Clean()
		if err != nil {
			return err
		}
		logger.Log.Info("Seed data cleaned", zap.Int64("users", removed))
		return nil
	},
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	if err := database.Initialize(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseURL,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(database.DB); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSeed(cmd *cobra.Command, counts seed.Counts) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer database.Close()
	defer logger.Close()

	users, err := seed.NewSeeder(database.DB, seedValue).Seed(counts)
	if err != nil {
		return err
	}
	logger.Log.Info("Database seeded", zap.Int("users", len(users)))

	if withTokens {
		return printTokens(cmd, cfg, users)
	}
	return nil
}

// printTokens signs development tokens with the IdP secret so the client can log in as seeded users
func printTokens(cmd *cobra.Command, cfg *config.Config, users []models.User) error {
	svc := auth.NewService([]byte(cfg.IDPSecret), cfg.IDPIssuer, cfg.IDPAudience, repository.NewUserRepository(database.DB))
	for _, u := range users {
		token, err := svc.IssueToken(repository.Identity{
			Subject:     u.IDPSubject,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
		}, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", u.Username, token)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().Int64Var(&seedValue, "seed", 0, "Random seed (0 picks one from the clock)")
	for _, c := range []*cobra.Command{devCmd, testCmd} {
		c.Flags().BoolVar(&withTokens, "tokens", false, "Print a signed token per seeded user")
		c.Flags().DurationVar(&tokenTTL, "token-ttl", 30*24*time.Hour, "Lifetime of printed tokens")
	}
	rootCmd.AddCommand(devCmd, testCmd, cleanCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
