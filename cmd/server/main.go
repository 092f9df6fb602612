package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/api"
	"github.com/user/arbitrage-crawler/internal/config"
	"github.com/user/arbitrage-crawler/internal/crawler"
	"github.com/user/arbitrage-crawler/internal/goat"
	"github.com/user/arbitrage-crawler/internal/monitoring"
	"github.com/user/arbitrage-crawler/internal/scheduler"
	"github.com/user/arbitrage-crawler/internal/snkrdunk"
	"github.com/user/arbitrage-crawler/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize Storage Layer
	pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pgStore.Close()
	if err := pgStore.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}
	redisStore := storage.NewRedisStore(cfg.RedisAddr)

	// Initialize Monitoring
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize marketplace clients
	sessionManager := snkrdunk.NewSessionManager(
		cfg.SnkrdunkBaseURL, cfg.SnkrdunkEmail, cfg.SnkrdunkPassword,
		cfg.LoginMaxRetries, time.Duration(cfg.LoginTimeout)*time.Second, logger)
	sessions := snkrdunk.NewCachedSessions(redisStore, sessionManager, logger)
	snkrClient := snkrdunk.NewClient(cfg.SnkrdunkBaseURL, time.Duration(cfg.FetchTimeout)*time.Second, logger)

	goatScraper, err := goat.NewScraper(cfg.GoatBaseURL, time.Duration(cfg.PageLoadTimeout)*time.Second, logger)
	if err != nil {
		logger.Fatal("failed to configure goat scraper", zap.Error(err))
	}

	// Initialize Core Orchestrator
	orchestrator := crawler.NewOrchestrator(
		sessions, snkrClient, crawler.NewGoatScraper(goatScraper),
		pgStore, redisStore, metrics, logger,
		time.Duration(cfg.SnkrdunkDelayMs)*time.Millisecond,
		time.Duration(cfg.GoatDelayMs)*time.Millisecond)

	// Initialize Scheduler
	var sched *scheduler.Scheduler
	if cfg.CrawlScheduleEnabled {
		sched, err = scheduler.New(cfg.CrawlSchedule, cfg.CrawlTimezone, orchestrator, logger)
		if err != nil {
			logger.Fatal("failed to configure scheduler", zap.Error(err))
		}
		sched.Start()
		logger.Info("scheduler started",
			zap.String("schedule", cfg.CrawlSchedule),
			zap.String("timezone", cfg.CrawlTimezone))
	}

	// Initialize API Server
	server := api.NewServer(cfg, orchestrator, pgStore, redisStore, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
