package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-grievance/grievance-service/internal/api/http"
	"github.com/campus-grievance/grievance-service/internal/api/http/handlers"
	"github.com/campus-grievance/grievance-service/internal/auth"
	"github.com/campus-grievance/grievance-service/internal/config"
	"github.com/campus-grievance/grievance-service/internal/events"
	"github.com/campus-grievance/grievance-service/internal/notify"
	"github.com/campus-grievance/grievance-service/internal/observability"
	"github.com/campus-grievance/grievance-service/internal/persistence"
	"github.com/campus-grievance/grievance-service/internal/repository"
	"github.com/campus-grievance/grievance-service/internal/repository/inmem"
	"github.com/campus-grievance/grievance-service/internal/service"
	"github.com/campus-grievance/grievance-service/internal/validation"
	"github.com/campus-grievance/grievance-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	var (
		userRepo  repository.UserRepository
		issueRepo repository.IssueRepository
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		issueRepo = repository.NewIssueRepository(pg.PoolHandle())
	} else {
		db := inmem.NewDB()
		userRepo = inmem.NewUserRepository(db)
		issueRepo = inmem.NewIssueRepository(db)
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var broker *persistence.AMQP
	publisher := events.Publisher(events.NopPublisher{})
	switch cfg.Events.Backend {
	case config.EventsBackendRedis:
		publisher = events.NewRedisPublisher(redis.Client, cfg.Events.RedisChannel)
	case config.EventsBackendAMQP:
		broker, err = persistence.NewAMQP(cfg.AMQP, cfg.Events.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("failed to connect amqp", zap.Error(err))
		}
		defer broker.Close()
		publisher = events.NewAMQPPublisher(broker.Channel, cfg.Events.AMQPExchange)
	}

	mailer, err := notify.NewMailer(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("failed to init mailer", zap.Error(err))
	}

	notifications := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), 256, logger)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: notifications,
		Publisher:  publisher,
		Mailer:     mailer,
		UserRepo:   userRepo,
		Logger:     logger,
	})
	worker.StartNotificationWorker(ctx, notifications, notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Tokens:   tokens,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		UserRepo:   userRepo,
		Dispatcher: notifications,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	metrics := observability.NewMetrics()
	validator := validation.New()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, handlers.HealthDependencies{
			Postgres: pg,
			Redis:    redis,
			AMQP:     broker,
			Metrics:  metrics,
		}),
		Users:          handlers.NewUsersHandler(authService, validator),
		Issues:         handlers.NewIssuesHandler(issueService, validator),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := notifications.Stop(shutdownCtx); err != nil {
		logger.Error("notification worker shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
