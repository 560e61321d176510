package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firmbooks/firmbooks/internal/app"
	"github.com/firmbooks/firmbooks/internal/ledger"
	"github.com/firmbooks/firmbooks/internal/observability"
	"github.com/firmbooks/firmbooks/internal/platform/cache"
	"github.com/firmbooks/firmbooks/internal/platform/db"
	"github.com/firmbooks/firmbooks/internal/shared"
	"github.com/firmbooks/firmbooks/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var idempotency *shared.IdempotencyStore
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, idempotency keys disabled", slog.Any("error", err))
	} else {
		idempotency = shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	repo := ledger.NewRepository(dbpool)
	sequencer := ledger.NewPGSequencer(dbpool)
	service := ledger.NewService(repo, sequencer, auditLogger)
	aggregator := ledger.NewAggregator(repo)
	statements := ledger.NewStatements(repo)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unreachable, exports will fail until it is up", slog.Any("error", err))
	}
	renderer, err := report.NewRenderer()
	if err != nil {
		logger.Error("parse report templates", slog.Any("error", err))
		os.Exit(1)
	}

	handler := ledger.NewHandler(logger, service, aggregator, statements, idempotency, metrics, pdfClient, renderer)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		LedgerHandler: handler,
		Metrics:       metrics,
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
