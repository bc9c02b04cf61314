// @title         booking-service API
// @version       1.0
// @description   Сервис подбора и бронирования кандидатов (людей и автоматизированных агентов) на слоты ролей в проектах.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен авторизации. Поддерживаются форматы: "Bearer <JWT>" или "<JWT>".
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/hr/booking/pkg/config"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/security/jwt"
	"github.com/artem13815/hr/booking/pkg/shutdown"
	"github.com/artem13815/hr/booking/pkg/storage/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("booking-service: %v", err)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("booking-server", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to YAML config (default: $CONFIG_FILE)")
	logLevel := flags.String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	migrateOnly := flags.Bool("migrate-only", false, "apply database migrations and exit")
	issueToken := flags.String("issue-service-token", "", "print an admin token for the given collaborator service id and exit")
	tokenTTL := flags.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by --issue-service-token")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Load configuration from env/.env and the optional YAML file
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if *issueToken != "" {
		return printServiceToken(cfg, *issueToken, *tokenTTL)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if *migrateOnly {
		return migrate(ctx, cfg, logger)
	}

	app, cleanup, err := InitializeApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.Port, "storage", cfg.Storage)
		return app.Run(":" + cfg.Port)
	})
	g.Go(func() error {
		return shutdown.Graceful(gctx, app, cfg.ShutdownTimeout(), logger)
	})
	return g.Wait()
}

func migrate(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	if cfg.Storage != config.StoragePostgres {
		return errors.New("--migrate-only requires postgres storage")
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "versions", applied)
	return nil
}

// printServiceToken mints a token for a collaborator service (project or
// identity service). Human tokens are issued by the identity service.
func printServiceToken(cfg config.Config, subject string, ttl time.Duration) error {
	id, err := uuid.Parse(subject)
	if err != nil {
		return fmt.Errorf("service id must be a UUID: %w", err)
	}
	token, err := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, ttl).Generate(context.Background(), id, true)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
