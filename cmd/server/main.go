package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zfogg/picfeed/internal/auth"
	"github.com/zfogg/picfeed/internal/cache"
	"github.com/zfogg/picfeed/internal/cleanup"
	"github.com/zfogg/picfeed/internal/config"
	"github.com/zfogg/picfeed/internal/database"
	"github.com/zfogg/picfeed/internal/handlers"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/middleware"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/search"
	"github.com/zfogg/picfeed/internal/service"
	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/internal/telemetry"
	"github.com/zfogg/picfeed/internal/util"
	"go.uber.org/zap"
)

const serviceName = "picfeed-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== picfeed server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.DBDriver),
	)

	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTelEndpoint,
		Enabled:      cfg.OTelEnabled,
		SamplingRate: cfg.OTelSamplingRate,
	})
	if err != nil {
		logger.Log.Warn("Tracing disabled: failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	metrics.Initialize()
	util.ExposeErrorDetails = cfg.IsDevelopment()

	if err := database.Initialize(database.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.DatabaseURL,
		Development: cfg.IsDevelopment(),
		Tracing:     cfg.OTelEnabled,
	}); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	images, err := storage.NewS3Uploader(ctx, storage.S3Options{
		Region:   cfg.AWSRegion,
		Bucket:   cfg.AWSBucket,
		BaseURL:  cfg.CDNBaseURL,
		Endpoint: cfg.AWSEndpoint,
	})
	if err != nil {
		logger.Log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
	}
	if err := images.CheckBucketAccess(ctx); err != nil {
		logger.Log.Warn("S3 bucket access check failed; uploads will fail until it is reachable",
			zap.String("bucket", cfg.AWSBucket),
			zap.Error(err),
		)
	}

	// Redis is optional; without it each instance rate limits on its own
	var redisClient *cache.RedisClient
	if cfg.RedisHost != "" {
		redisClient, err = cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-process rate limiting", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var sweeper *cleanup.OrphanSweeper
	if cfg.SweepInterval > 0 {
		sweeper = cleanup.NewOrphanSweeper(database.DB, images, cfg.SweepInterval, cfg.SweepGrace)
		sweeper.Start(ctx)
	}

	users := repository.NewUserRepository(database.DB)
	authService := auth.NewService([]byte(cfg.IDPSecret), cfg.IDPIssuer, cfg.IDPAudience, users)
	postService := service.NewPostService(repository.NewPostRepository(database.DB), images)
	h := handlers.NewHandlers(database.DB, postService)

	// Elasticsearch is optional; without it user search matches in the database
	if cfg.ElasticsearchURL != "" {
		searchClient, err := search.NewClient(ctx, search.Options{URL: cfg.ElasticsearchURL})
		if err != nil {
			logger.Log.Warn("Elasticsearch unavailable, using database user search", zap.Error(err))
		} else {
			if err := searchClient.EnsureIndex(ctx); err != nil {
				logger.Log.Warn("Failed to ensure users index", zap.Error(err))
			}
			h.SetUserSearch(searchClient)
			authService.SetIndexer(searchClient)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.TracingMiddleware(serviceName))
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(r.Group("/api/v1"), handlers.RouteMiddleware{
		RequireAuth:   middleware.RequireAuth(authService),
		OptionalAuth:  middleware.OptionalAuth(authService),
		MutationLimit: middleware.RedisRateLimitMiddleware(redisClient, middleware.DefaultRateLimitConfig(cfg.RateLimitPerMinute)),
		UploadLimit:   middleware.RedisRateLimitMiddleware(redisClient, middleware.UploadRateLimitConfig()),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("picfeed API listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		sweeper.Stop()
	}

	logger.Log.Info("Server exited")
}
