package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/scentdesk/scentdesk/internal/app"
	"github.com/scentdesk/scentdesk/internal/emails"
	"github.com/scentdesk/scentdesk/internal/extraction"
	"github.com/scentdesk/scentdesk/internal/platform/cache"
	"github.com/scentdesk/scentdesk/internal/platform/db"
	"github.com/scentdesk/scentdesk/internal/quotas"
	"github.com/scentdesk/scentdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	quotaService := quotas.NewService(redisClient, quotas.NewRoleResolver(dbpool))

	extractorClient := extraction.NewClient(cfg.ExtractorURL, cfg.ExtractorTimeout)
	if err := extractorClient.Ping(ctx); err != nil {
		logger.Warn("extractor unreachable, extraction jobs will fail until it comes back",
			slog.String("url", cfg.ExtractorURL), slog.Any("error", err))
	}
	extractionStore := extraction.NewStore(redisClient)
	extractionService := extraction.NewService(logger, extractionStore, extractorClient, quotaService, queueClient, cfg.SecondsPerPage)

	mailer := emails.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.NewSendEmailHandler(mailer, logger)},
			{Type: jobs.TaskTypeExtraction, Handler: jobs.NewExtractionHandler(extractionService, logger)},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
