// Package scheduler triggers the bulk crawl on a fixed cron schedule in a
// fixed timezone.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/crawler"
	"github.com/user/arbitrage-crawler/internal/domain"
)

// BulkCrawler is the orchestrator entry point the scheduler fires.
type BulkCrawler interface {
	CrawlAll(ctx context.Context) (*domain.BulkResult, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New registers the crawl job. A failed or skipped run never affects the
// next tick.
func New(spec, timezone string, bulk BulkCrawler, logger *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load crawl timezone %q: %w", timezone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		logger.Info("scheduled crawl starting")
		result, err := bulk.CrawlAll(context.Background())
		switch {
		case errors.Is(err, crawler.ErrCrawlInProgress):
			logger.Warn("scheduled crawl skipped, previous run still in progress")
		case err != nil:
			logger.Error("scheduled crawl failed", zap.Error(err))
		default:
			logger.Info("scheduled crawl finished",
				zap.Int("total", result.TotalProducts),
				zap.Int("success", result.SuccessCount),
				zap.Int("errors", result.ErrorCount))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register crawl schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; an in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
