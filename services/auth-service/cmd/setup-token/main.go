// Command setup-token mints an admin setup token from the command line.
// It is how the first admin of a fresh installation is created: the token is
// redeemed through POST /api/v1/admin-setup/promote by a signed-in student.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/aura-academy/portal/libs/auth/service"
	"github.com/aura-academy/portal/libs/config"
	"github.com/aura-academy/portal/libs/logger"
	"github.com/aura-academy/portal/services/auth-service/internal/repositories"
	"github.com/aura-academy/portal/services/auth-service/internal/services"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "how long the token stays valid")
	force := flag.Bool("force", false, "mint a token even when admins already exist")
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo := repositories.NewUserRepository(db, logger.Logger)
	admins, err := userRepo.CountAdmins(ctx)
	if err != nil {
		logger.Logger.Fatal("Failed to count admins", zap.Error(err))
	}
	if admins > 0 && !*force {
		logger.Logger.Fatal("Admins already exist; issue tokens from the admin API or pass -force", zap.Int("admins", admins))
	}

	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	adminService := services.NewAdminService(
		userRepo,
		repositories.NewUserTokenRepository(db),
		repositories.NewSetupTokenRepository(db),
		tokenGenerator,
		logger.Logger,
	)

	token, err := adminService.CreateSetupToken(ctx, nil, *ttl)
	if err != nil {
		logger.Logger.Fatal("Failed to create setup token", zap.Error(err))
	}

	fmt.Printf("setup token: %s\nexpires at: %s\n", token.Token, token.ExpiresAt.Format(time.RFC3339))
}
