package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httptransport "github.com/reduxreimagine/portal-service/internal/api/http"
	"github.com/reduxreimagine/portal-service/internal/api/http/handlers"
	"github.com/reduxreimagine/portal-service/internal/auth"
	"github.com/reduxreimagine/portal-service/internal/config"
	"github.com/reduxreimagine/portal-service/internal/events"
	"github.com/reduxreimagine/portal-service/internal/mail"
	"github.com/reduxreimagine/portal-service/internal/observability"
	"github.com/reduxreimagine/portal-service/internal/persistence"
	"github.com/reduxreimagine/portal-service/internal/repository"
	"github.com/reduxreimagine/portal-service/internal/service"
	"github.com/reduxreimagine/portal-service/internal/storage"
	"github.com/reduxreimagine/portal-service/internal/worker"
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

	bucket, err := storage.NewBucket(cfg.Storage.BucketDir)
	if err != nil {
		logger.Fatal("failed to open storage bucket", zap.Error(err))
	}

	pool := pg.PoolHandle()
	identityRepo := repository.NewIdentityRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	tokenStore := persistence.NewTokenStore(redis.Client)
	limiter := persistence.NewRateLimiter(redis.Client, time.Hour)

	mailer := mail.NewResendClient(cfg.Email, logger)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		IdentityRepo: identityRepo,
		ClientRepo:   clientRepo,
		TokenStore:   tokenStore,
		Mailer:       mailer,
		Logger:       logger,
	})
	clientService := service.NewClientService(clientRepo)
	projectService := service.NewProjectService(projectRepo, clientRepo)
	ticketService := service.NewTicketService(ticketRepo, clientRepo, dispatcher)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo, bucket, dispatcher)
	adminService := service.NewAdminService(service.AdminDependencies{
		AdminRepo:   adminRepo,
		ClientRepo:  clientRepo,
		TicketRepo:  ticketRepo,
		InvoiceRepo: invoiceRepo,
	})
	contactService := service.NewContactService(*cfg, mailer, limiter, logger)
	notificationService := service.NewNotificationService(dispatcher, mailer, *cfg, logger)

	worker.StartNotificationWorker(notificationService)

	identityResolver := auth.NewIdentityResolver(authService.TokenManager(), identityRepo, logger)
	gate := auth.NewGate(adminRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService),
		Contact:  handlers.NewContactHandler(contactService),
		Profile:  handlers.NewProfileHandler(clientService),
		Projects: handlers.NewProjectsHandler(projectService),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Invoices: handlers.NewInvoicesHandler(invoiceService),
		Admin:    handlers.NewAdminHandler(adminService, clientService),
		Identity: identityResolver,
		Gate:     gate,
	})

	metricsServer := &http.Server{
		Addr:    cfg.App.MetricsAddr(),
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info("metrics listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listen", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
