// Command migrate-legacy copies the legacy day_sections and lesson_sections/lesson_blocks
// content into course_content, one canonical row per day.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/aura-academy/portal/libs/config"
	"github.com/aura-academy/portal/libs/logger"
	"github.com/aura-academy/portal/services/learn-service/internal/repositories"
	"github.com/aura-academy/portal/services/learn-service/internal/services"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report the days that would be migrated without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Cache invalidation is skipped, the learn service cache expires on its TTL
	adminContentService := services.NewAdminContentService(
		repositories.NewCourseContentRepository(db),
		repositories.NewContentVersionRepository(db),
		nil,
		cfg.Course.Days,
		logger.Logger,
	)
	migrator := services.NewLegacyMigrator(repositories.NewLegacyContentRepository(db), adminContentService, logger.Logger)

	report, err := migrator.Run(ctx, *dryRun)
	if err != nil {
		logger.Logger.Fatal("Legacy migration failed", zap.Error(err))
	}

	fmt.Printf("migrated: %v\nunpublished: %v\nskipped: %v\n", report.Migrated, report.Unpublished, report.Skipped)
}
