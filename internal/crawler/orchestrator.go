// Package crawler orchestrates the cross-marketplace pipeline: one snkrdunk
// session and one goat browser page are shared across the whole catalog, and
// every per-product or per-record failure is contained to that item.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/domain"
	"github.com/user/arbitrage-crawler/internal/monitoring"
	"github.com/user/arbitrage-crawler/internal/reconcile"
	"github.com/user/arbitrage-crawler/internal/snkrdunk"
	"github.com/user/arbitrage-crawler/internal/storage"
)

// ErrCrawlInProgress is returned when a bulk crawl is triggered while
// another one holds the crawl lock.
var ErrCrawlInProgress = errors.New("bulk crawl already in progress")

// Sessions hands out and invalidates the snkrdunk session.
type Sessions interface {
	Ensure(ctx context.Context) (*snkrdunk.Session, error)
	Invalidate(ctx context.Context) error
}

// PriceFetcher fetches normalized snkrdunk size prices for one product.
type PriceFetcher interface {
	FetchSizePrices(ctx context.Context, sess *snkrdunk.Session, apiPath, productType string) ([]domain.SizePrice, error)
}

// Page is one reusable goat browser tab.
type Page interface {
	Reset(ctx context.Context) error
	Close()
}

// Scraper scrapes goat size prices, either on a shared page or, when page is
// nil, on an ephemeral one.
type Scraper interface {
	OpenPage(ctx context.Context) (Page, error)
	Scrape(ctx context.Context, page Page, product domain.Product) ([]domain.GoatSizePrice, error)
}

// Store is the persistence the orchestrator needs: the read-only catalog and
// the crawl-row upsert.
type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpsertCrawlRow(ctx context.Context, rec domain.ReconciledRecord) (storage.UpsertOutcome, error)
}

// Locker serializes bulk crawls across processes.
type Locker interface {
	AcquireCrawlLock(ctx context.Context) (bool, error)
	ReleaseCrawlLock(ctx context.Context) error
}

type Orchestrator struct {
	sessions Sessions
	fetcher  PriceFetcher
	scraper  Scraper
	store    Store
	locker   Locker
	metrics  *monitoring.Metrics
	logger   *zap.Logger

	snkrdunkDelay time.Duration
	goatDelay     time.Duration
}

func NewOrchestrator(
	sessions Sessions,
	fetcher PriceFetcher,
	scraper Scraper,
	store Store,
	locker Locker,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	snkrdunkDelay, goatDelay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		sessions:      sessions,
		fetcher:       fetcher,
		scraper:       scraper,
		store:         store,
		locker:        locker,
		metrics:       metrics,
		logger:        logger,
		snkrdunkDelay: snkrdunkDelay,
		goatDelay:     goatDelay,
	}
}

// CrawlProduct runs the pipeline for a single ad-hoc product on an ephemeral
// browser. A stale cached session gets exactly one fresh-login retry.
func (o *Orchestrator) CrawlProduct(ctx context.Context, product domain.Product) (*domain.ProductResult, error) {
	sess, err := o.sessions.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("establish snkrdunk session: %w", err)
	}

	prices, err := o.fetcher.FetchSizePrices(ctx, sess, product.SnkrdunkAPI, product.Type)
	if errors.Is(err, snkrdunk.ErrUnauthorized) {
		o.logger.Warn("cached snkrdunk session rejected, re-logging in")
		if dropErr := o.sessions.Invalidate(ctx); dropErr != nil {
			o.logger.Warn("failed to invalidate snkrdunk session", zap.Error(dropErr))
		}
		sess, err = o.sessions.Ensure(ctx)
		if err != nil {
			return nil, fmt.Errorf("re-establish snkrdunk session: %w", err)
		}
		prices, err = o.fetcher.FetchSizePrices(ctx, sess, product.SnkrdunkAPI, product.Type)
	}
	if err != nil {
		o.logger.Warn("snkrdunk fetch failed, continuing without prices",
			zap.String("api", product.SnkrdunkAPI), zap.Error(err))
		o.metrics.IncErrorsTotal("snkrdunk_fetch")
		prices = nil
	}

	records, err := o.scraper.Scrape(ctx, nil, product)
	if err != nil {
		o.metrics.IncErrorsTotal("goat_scrape")
		return nil, fmt.Errorf("scrape goat product: %w", err)
	}

	result := o.persist(ctx, product, prices, records)
	o.metrics.IncProductsCrawled()
	return result, nil
}

// CrawlAll runs the two-phase bulk pipeline over the whole catalog.
func (o *Orchestrator) CrawlAll(ctx context.Context) (*domain.BulkResult, error) {
	ok, err := o.locker.AcquireCrawlLock(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire crawl lock: %w", err)
	}
	if !ok {
		return nil, ErrCrawlInProgress
	}
	defer func() {
		if err := o.locker.ReleaseCrawlLock(ctx); err != nil {
			o.logger.Warn("failed to release crawl lock", zap.Error(err))
		}
	}()

	start := time.Now()

	products, err := o.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product catalog: %w", err)
	}

	sess, err := o.sessions.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("establish snkrdunk session: %w", err)
	}

	// Phase 1: snkrdunk prices for the whole catalog over the one session,
	// spaced out to stay under the rate limit. A failed fetch leaves the
	// product without prices but keeps it in the batch.
	prices := make(map[int64][]domain.SizePrice, len(products))
	for i, p := range products {
		if i > 0 {
			o.sleep(ctx, o.snkrdunkDelay)
		}
		list, err := o.fetcher.FetchSizePrices(ctx, sess, p.SnkrdunkAPI, p.Type)
		if err != nil {
			o.logger.Warn("snkrdunk fetch failed, continuing without prices",
				zap.String("api", p.SnkrdunkAPI), zap.Error(err))
			o.metrics.IncErrorsTotal("snkrdunk_fetch")
			continue
		}
		prices[p.ID] = list
	}

	// Phase 2: one shared browser page for every goat scrape.
	page, err := o.scraper.OpenPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open shared goat page: %w", err)
	}
	defer page.Close()

	result := &domain.BulkResult{TotalProducts: len(products)}
	for i, p := range products {
		if i > 0 {
			o.sleep(ctx, o.goatDelay)
			if err := page.Reset(ctx); err != nil {
				o.logger.Warn("failed to reset shared page state", zap.Error(err))
			}
		}

		records, err := o.scraper.Scrape(ctx, page, p)
		if err != nil {
			o.logger.Warn("goat scrape failed",
				zap.String("product_url", p.GoatURL), zap.Error(err))
			o.metrics.IncErrorsTotal("goat_scrape")
			result.ErrorCount++
			result.Results = append(result.Results, domain.ProductResult{
				ProductURL: p.GoatURL,
				Error:      err.Error(),
			})
			continue
		}

		pr := o.persist(ctx, p, prices[p.ID], records)
		result.SuccessCount++
		result.Results = append(result.Results, *pr)
		o.metrics.IncProductsCrawled()
	}

	result.SuccessRate = successRate(result.SuccessCount, result.TotalProducts)
	o.metrics.ObserveCrawlDuration(time.Since(start))
	o.logger.Info("bulk crawl finished",
		zap.Int("total", result.TotalProducts),
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

// persist reconciles and upserts every record for one product. Records are
// persisted independently; one failed row never aborts the rest.
func (o *Orchestrator) persist(ctx context.Context, product domain.Product, prices []domain.SizePrice, records []domain.GoatSizePrice) *domain.ProductResult {
	recs := reconcile.Merge(prices, records)
	res := &domain.ProductResult{ProductURL: product.GoatURL, Total: len(recs)}
	for _, rec := range recs {
		outcome, err := o.store.UpsertCrawlRow(ctx, rec)
		if err != nil {
			o.logger.Error("failed to save crawl row",
				zap.String("product_url", rec.ProductURL),
				zap.String("size", rec.SizeGoat),
				zap.Error(err))
			o.metrics.IncErrorsTotal("db_save")
			continue
		}
		if outcome == storage.OutcomeSkipped {
			res.Skipped++
			o.metrics.IncRowsSkipped()
			continue
		}
		res.Saved++
		o.metrics.IncRowsSaved()
	}
	return res
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func successRate(success, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(success)/float64(total)*100)
}
