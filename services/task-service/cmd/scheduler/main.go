package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aura-academy/portal/libs/config"
	"github.com/aura-academy/portal/libs/logger"
	"github.com/aura-academy/portal/services/task-service/internal/clients"
	"github.com/aura-academy/portal/services/task-service/internal/repositories"
	"github.com/aura-academy/portal/services/task-service/internal/services"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

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

	logger.Logger.Info("Starting Aura Task Scheduler")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize repositories and services
	notificationRepo := repositories.NewNotificationRepository(db)
	emailTemplateRepo := repositories.NewEmailTemplateRepository(db)
	jobRunRepo := repositories.NewJobRunRepository(db)
	notificationService := services.NewNotificationService(notificationRepo, emailTemplateRepo, asynqClient, logger.Logger)

	scheduler, err := NewScheduler(
		SchedulerConfig{
			DripReminderSpec: cfg.Course.DripReminderCron,
			TokenCleanupSpec: "@daily",
			AppBaseURL:       cfg.AppBaseURL,
		},
		logger.Logger,
		clients.NewLearnClient(cfg.Services.LearnBaseURL, cfg.APIKey),
		clients.NewAuthClient(cfg.Services.AuthBaseURL, cfg.APIKey),
		notificationService,
		jobRunRepo,
		newRedisLock(rdb),
	)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	scheduler.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down scheduler...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	logger.Logger.Info("Scheduler exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
