package database

import (
	"fmt"
	"time"

	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection opened by Initialize
var DB *gorm.DB

// Options configures Open
type Options struct {
	Driver      string // "postgres" or "sqlite"
	DSN         string
	Development bool // log every SQL statement
	Tracing     bool // emit OpenTelemetry spans per query
}

// Open creates and configures a database connection without touching the global
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres", "":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	level := gormlogger.Warn
	if opts.Development {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewZapLogger(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Tracing {
		if err := db.Use(telemetry.GORMTracingPlugin()); err != nil {
			return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if opts.Driver == "sqlite" {
		// one connection keeps in-memory databases and PRAGMAs consistent
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Initialize opens the connection and stores it in DB
func Initialize(opts Options) error {
	db, err := Open(opts)
	if err != nil {
		return err
	}
	DB = db
	logger.Log.Info("Database connected", zap.String("driver", db.Dialector.Name()))
	return nil
}

// Migrate creates tables, indexes and the aggregate views
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := createViews(db); err != nil {
		return fmt.Errorf("failed to create views: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// createIndexes creates the indexes feed and profile queries rely on
func createIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_posts_created ON posts (created_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_posts_user_created ON posts (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments (post_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_likes_post ON likes (post_id)",
		"CREATE INDEX IF NOT EXISTS idx_follows_following ON follows (following_id)",
		"CREATE INDEX IF NOT EXISTS idx_users_display_name_lower ON users (LOWER(display_name))",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes the global database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
