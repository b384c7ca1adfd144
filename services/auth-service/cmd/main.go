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
	"github.com/aura-academy/portal/services/auth-service/internal/clients"
	"github.com/aura-academy/portal/services/auth-service/internal/handlers"
	"github.com/aura-academy/portal/services/auth-service/internal/repositories"
	"github.com/aura-academy/portal/services/auth-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// @title Aura Empowerment Academy Auth API
// @version 1.0
// @description Accounts, sessions, password resets, admin setup and newsletter sign-up
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

	logger.Logger.Info("Starting Aura Auth Service")

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

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	setupTokenRepo := repositories.NewSetupTokenRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	newsletterRepo := repositories.NewNewsletterRepository(db)

	// Sibling service clients
	learnClient := clients.NewLearnClient(cfg.Services.LearnBaseURL, cfg.APIKey)
	taskClient := clients.NewTaskClient(cfg.Services.TaskBaseURL, cfg.APIKey)

	// Initialize services
	authService := services.NewAuthService(userRepo, userTokenRepo, learnClient, taskClient, tokenGenerator, logger.Logger, cfg.AppBaseURL)
	profileService := services.NewProfileService(userRepo, userTokenRepo)
	resetService := services.NewPasswordResetService(userRepo, userTokenRepo, resetRepo, taskClient, logger.Logger, cfg.AppBaseURL)
	adminService := services.NewAdminService(userRepo, userTokenRepo, setupTokenRepo, tokenGenerator, logger.Logger)
	newsletterService := services.NewNewsletterService(newsletterRepo)
	breachService := services.NewBreachService(cfg.BreachCheckURL, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger)
	accountHandler := handlers.NewAccountHandler(resetService, breachService, newsletterService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, authHandler, logger.Logger)
	tokenCleaningHandler := handlers.NewTokenCleaningHandler(adminService, logger.Logger, cfg.JWT.RefreshTokenExpiry)

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
		authHandler.RegisterRoutes(r)
		accountHandler.RegisterRoutes(r)
		profileHandler.RegisterRoutes(r, authMiddleware)
		adminHandler.RegisterSetupRoutes(r, authMiddleware)
		// Register token cleaning routes with API key middleware
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			tokenCleaningHandler.RegisterRoutes(r)
		})
		// Register admin routes with role middleware
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			adminHandler.RegisterRoutes(r)
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
		MigrationsTable: "auth_schema_migrations",
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
