package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ajay-verma30/Neil-admin-sub000/internal/api/http"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/api/http/handlers"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/auth"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/config"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/events"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/observability"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/persistence"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/repository"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/service"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	placementRepo := repository.NewPlacementRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshRepo,
		Dispatcher:       dispatcher,
	})
	placementService := service.NewPlacementService(placementRepo, dispatcher)
	auditService := service.NewAuditService(dispatcher, redis, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth),
		Placements:     handlers.NewPlacementsHandler(placementService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
