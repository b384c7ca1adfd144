package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aura-academy/portal/libs/auth/middleware"
	"github.com/aura-academy/portal/libs/auth/service"
	"github.com/aura-academy/portal/libs/config"
	"github.com/aura-academy/portal/libs/logger"
	loggerMiddleware "github.com/aura-academy/portal/libs/logger/middleware"
	sharedMiddleware "github.com/aura-academy/portal/libs/middlewares"
	"github.com/aura-academy/portal/services/learn-service/internal/cache"
	"github.com/aura-academy/portal/services/learn-service/internal/handlers"
	"github.com/aura-academy/portal/services/learn-service/internal/repositories"
	"github.com/aura-academy/portal/services/learn-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// @title Aura Empowerment Academy Learn API
// @version 1.0
// @description Course days, lesson content editor, video progress, certificates and reviews
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Aura Learn Service", zap.Int("courseDays", cfg.Course.Days))

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis backs the published content cache; an unreachable Redis only costs cache misses
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn("Redis is not reachable, content cache will miss", zap.Error(err))
	}
	contentCache := cache.NewContentCache(redisClient, cfg.Course.ContentCacheTTL, logger.Logger)

	// Initialize JWT token validator
	tokenGenerator := service.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	courseContentRepo := repositories.NewCourseContentRepository(db)
	contentVersionRepo := repositories.NewContentVersionRepository(db)
	legacyContentRepo := repositories.NewLegacyContentRepository(db)
	completionRepo := repositories.NewLessonCompletionRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	progressRepo := repositories.NewVideoProgressRepository(db)
	bookmarkRepo := repositories.NewVideoBookmarkRepository(db)
	videoRepo := repositories.NewVideoContentRepository(db)
	certificateRepo := repositories.NewCertificateRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	activityRepo := repositories.NewActivityLogRepository(db)

	// Initialize services
	contentService := services.NewContentService(courseContentRepo, legacyContentRepo, completionRepo, enrollmentRepo, contentCache, cfg.Course.Days, logger.Logger)
	adminContentService := services.NewAdminContentService(courseContentRepo, contentVersionRepo, contentCache, cfg.Course.Days, logger.Logger)
	videoService := services.NewVideoService(progressRepo, bookmarkRepo, videoRepo, logger.Logger)
	certificateService := services.NewCertificateService(certificateRepo, completionRepo, cfg.Course.Days, logger.Logger)
	reviewService := services.NewReviewService(reviewRepo, logger.Logger)
	activityService := services.NewActivityService(activityRepo)
	dripService := services.NewDripService(enrollmentRepo, cfg.Course.Days, logger.Logger)

	// Initialize handlers
	contentHandler := handlers.NewContentHandler(contentService, logger.Logger)
	adminContentHandler := handlers.NewAdminContentHandler(adminContentService, logger.Logger)
	videoHandler := handlers.NewVideoHandler(videoService, logger.Logger)
	certificateHandler := handlers.NewCertificateHandler(certificateService, logger.Logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger.Logger)
	activityHandler := handlers.NewActivityHandler(activityService, logger.Logger)
	internalHandler := handlers.NewInternalHandler(dripService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, service.RoleAdmin)
	apiKeyMiddleware := middleware.APIKeyMiddleware(cfg.APIKey)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		contentHandler.RegisterRoutes(r, authMiddleware)
		videoHandler.RegisterRoutes(r, authMiddleware)
		certificateHandler.RegisterRoutes(r, authMiddleware)
		reviewHandler.RegisterRoutes(r, authMiddleware)
		activityHandler.RegisterRoutes(r, authMiddleware)
		// Register admin routes with role middleware
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			adminContentHandler.RegisterRoutes(r)
			videoHandler.RegisterAdminRoutes(r)
			reviewHandler.RegisterAdminRoutes(r)
			activityHandler.RegisterAdminRoutes(r)
		})
		// Register service-to-service routes with API key middleware
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			internalHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	// Use service-specific migration table name to avoid conflicts with other services
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "learn_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
