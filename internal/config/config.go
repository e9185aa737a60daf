package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from the environment
type Config struct {
	Port        string
	Environment string

	// Database
	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string

	// Identity provider
	IDPSecret   string
	IDPIssuer   string
	IDPAudience string

	// Object storage
	AWSRegion   string
	AWSBucket   string
	AWSEndpoint string // optional, for S3-compatible stores
	CDNBaseURL  string

	// Orphaned image sweeper; off unless SWEEP_INTERVAL is set. `migrate sweep`
	// runs one pass on demand.
	SweepInterval time.Duration
	SweepGrace    time.Duration

	// Elasticsearch (optional, user search); empty falls back to SQL matching
	ElasticsearchURL string

	// Redis (optional, shared rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	RateLimitPerMinute int
	CORSOrigins        []string

	LogLevel string
	LogFile  string

	// OpenTelemetry
	OTelEnabled      bool
	OTelEndpoint     string
	OTelSamplingRate float64
}

// Load reads .env (if present) and the process environment.
// REQUIRED environment variables:
// - IDP_JWT_SECRET: shared secret used by the identity provider to sign tokens
// - AWS_BUCKET: bucket that stores post images
func Load() (*Config, error) {
	// .env is optional; system environment wins when both are set
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8787"),
		Environment:        getEnvOrDefault("ENVIRONMENT", "production"),
		DBDriver:           getEnvOrDefault("DB_DRIVER", "postgres"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		IDPSecret:          os.Getenv("IDP_JWT_SECRET"),
		IDPIssuer:          os.Getenv("IDP_ISSUER"),
		IDPAudience:        os.Getenv("IDP_AUDIENCE"),
		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSBucket:          os.Getenv("AWS_BUCKET"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),
		CDNBaseURL:         os.Getenv("CDN_BASE_URL"),
		SweepInterval:      getEnvDuration("SWEEP_INTERVAL", 0),
		SweepGrace:         getEnvDuration("SWEEP_GRACE", time.Hour),
		ElasticsearchURL:   os.Getenv("ELASTICSEARCH_URL"),
		RedisHost:          os.Getenv("REDIS_HOST"),
		RedisPort:          getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSOrigins:        splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:            getEnvOrDefault("LOG_FILE", "picfeed-server.log"),
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTelEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTelSamplingRate:   getEnvFloat("OTEL_SAMPLING_RATE", 1.0),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL(cfg.DBDriver)
	}
	if cfg.CDNBaseURL == "" && cfg.AWSBucket != "" {
		cfg.CDNBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWSBucket, cfg.AWSRegion)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if c.IDPSecret == "" {
		return fmt.Errorf("IDP_JWT_SECRET environment variable not set")
	}
	if c.AWSBucket == "" {
		return fmt.Errorf("AWS_BUCKET environment variable not set")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	return nil
}

// IsDevelopment reports whether internal error details may be returned to clients
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func defaultDatabaseURL(driver string) string {
	if driver == "sqlite" {
		return "picfeed.db?_foreign_keys=on"
	}
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "picfeed")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
