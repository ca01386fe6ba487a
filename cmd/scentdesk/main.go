package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/scentdesk/scentdesk/internal/app"
	"github.com/scentdesk/scentdesk/internal/auth"
	"github.com/scentdesk/scentdesk/internal/customers"
	"github.com/scentdesk/scentdesk/internal/emails"
	"github.com/scentdesk/scentdesk/internal/export"
	"github.com/scentdesk/scentdesk/internal/extraction"
	"github.com/scentdesk/scentdesk/internal/formulas"
	"github.com/scentdesk/scentdesk/internal/groups"
	"github.com/scentdesk/scentdesk/internal/observability"
	"github.com/scentdesk/scentdesk/internal/orders"
	"github.com/scentdesk/scentdesk/internal/platform/cache"
	"github.com/scentdesk/scentdesk/internal/platform/db"
	"github.com/scentdesk/scentdesk/internal/quotas"
	"github.com/scentdesk/scentdesk/internal/rbac"
	"github.com/scentdesk/scentdesk/internal/reviews"
	"github.com/scentdesk/scentdesk/internal/roles"
	"github.com/scentdesk/scentdesk/internal/shared"
	"github.com/scentdesk/scentdesk/internal/users"
	"github.com/scentdesk/scentdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionSecret, cfg.SessionTTL)

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	authService := auth.NewService(usersRepo, sessionManager)
	authHandler := auth.NewHandler(logger, authService)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	groupsRepo := groups.NewRepository(dbpool)
	groupsService := groups.NewService(groupsRepo)
	groupsHandler := groups.NewHandler(logger, groupsService)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService, groupsHandler.CustomerGroups)

	formulasRepo := formulas.NewRepository(dbpool)
	formulasService := formulas.NewService(formulasRepo)
	formulasHandler := formulas.NewHandler(logger, formulasService)

	reviewsRepo := reviews.NewRepository(dbpool)
	reviewsService := reviews.NewService(reviewsRepo)
	reviewsHandler := reviews.NewHandler(logger, reviewsService)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo)
	ordersHandler := orders.NewHandler(logger, ordersService)

	quotaService := quotas.NewService(redisClient, quotas.NewRoleResolver(dbpool))
	quotasHandler := quotas.NewHandler(logger, quotaService)

	exportService := export.NewService(customersRepo, ordersRepo, quotaService)
	exportHandler := export.NewHandler(logger, exportService)

	extractorClient := extraction.NewClient(cfg.ExtractorURL, cfg.ExtractorTimeout)
	extractionStore := extraction.NewStore(redisClient)
	extractionService := extraction.NewService(logger, extractionStore, extractorClient, quotaService, queueClient, cfg.SecondsPerPage)
	extractionHandler := extraction.NewHandler(logger, extractionService, cfg.MaxUploadBytes)

	emailsService, err := emails.NewService(queueClient)
	if err != nil {
		logger.Error("init email templates", slog.Any("error", err))
		os.Exit(1)
	}
	emailsHandler := emails.NewHandler(logger, emailsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		RBACMiddleware:    rbacMiddleware,
		AuthHandler:       authHandler,
		UsersHandler:      usersHandler,
		RolesHandler:      rolesHandler,
		CustomersHandler:  customersHandler,
		FormulasHandler:   formulasHandler,
		GroupsHandler:     groupsHandler,
		ReviewsHandler:    reviewsHandler,
		OrdersHandler:     ordersHandler,
		QuotasHandler:     quotasHandler,
		ExportHandler:     exportHandler,
		ExtractionHandler: extractionHandler,
		EmailsHandler:     emailsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
