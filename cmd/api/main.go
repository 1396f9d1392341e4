package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/growflow/backend/internal/api/http"
	"github.com/growflow/backend/internal/api/http/handlers"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/cache"
	"github.com/growflow/backend/internal/config"
	"github.com/growflow/backend/internal/events"
	"github.com/growflow/backend/internal/observability"
	"github.com/growflow/backend/internal/persistence"
	"github.com/growflow/backend/internal/repository"
	"github.com/growflow/backend/internal/service"
	"github.com/growflow/backend/internal/worker"
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
	if err := persistence.SeedAdmin(ctx, pg.PoolHandle(), cfg.Bootstrap, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	customerRepo := repository.NewCustomerRepository(pool)
	staffRepo := repository.NewStaffUserRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	if cfg.Queue.URL != "" {
		events.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.QueueName, logger).RegisterSink(dispatcher)
	}

	summaryCache := cache.NewCustomerSummaryCache(redis.Client, cfg.SummaryCache.TTL(), logger)
	summaryCache.RegisterInvalidation(dispatcher)

	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo:     customerRepo,
		SubscriptionRepo: subscriptionRepo,
		Dispatcher:       dispatcher,
		SummaryCache:     summaryCache,
		BcryptCost:       cfg.Auth.BcryptCost,
	})
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		CustomerRepo:    customerRepo,
		StaffRepo:       staffRepo,
		CustomerService: customerService,
		TokenManager:    tokenManager,
		Dispatcher:      dispatcher,
	})
	quoteService := service.NewQuoteService(subscriptionRepo, customerRepo, dispatcher)
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo:      paymentRepo,
		SubscriptionRepo: subscriptionRepo,
		CustomerRepo:     customerRepo,
		Dispatcher:       dispatcher,
	})
	verificationService := service.NewVerificationService(paymentRepo, dispatcher)
	reportService := service.NewReportService(paymentRepo, customerRepo, subscriptionRepo)
	importService := service.NewImportService(customerService, quoteService)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, customerRepo, staffRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService, quoteService, paymentService),
		Payments:       handlers.NewPaymentsHandler(paymentService, verificationService),
		Admin:          handlers.NewAdminHandler(reportService, importService, authService),
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
