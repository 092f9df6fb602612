// Package goat scrapes per-size pricing from goat.com product pages. Prices
// come from the buy-bar API called inside the page's own script context so
// the request carries the page's cookies; product identity comes from the
// rendered DOM.
package goat

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	cdpstorage "github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/domain"
)

// One fixed desktop identity for every page. Rotating agents would break the
// currency/locale cookie setup goat keys its rendering on.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	viewportWidth  = 1366
	viewportHeight = 768

	// How long to wait for the image carousel before giving up on the image.
	carouselWait = 10 * time.Second
)

const buyBarScript = `fetch("/web-api/v1/product_variants/buy_bar_data?productTemplateId=%d&countryCode=JP", {credentials: "include", headers: {"accept": "application/json"}}).then(r => r.ok ? r.json() : null).then(d => d || []).catch(() => [])`

// Scraper drives a headless browser against goat.com.
type Scraper struct {
	baseURL      string
	cookieDomain string
	pageTimeout  time.Duration
	logger       *zap.Logger
}

func NewScraper(baseURL string, pageTimeout time.Duration, logger *zap.Logger) (*Scraper, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid goat base URL %q", baseURL)
	}
	return &Scraper{
		baseURL:      strings.TrimRight(baseURL, "/"),
		cookieDomain: "." + strings.TrimPrefix(u.Hostname(), "www."),
		pageTimeout:  pageTimeout,
		logger:       logger,
	}, nil
}

// Page is one prepared browser tab. In bulk mode a single Page is shared
// across every product; Reset between products bounds memory growth.
type Page struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// Close tears down the browser and its allocator.
func (p *Page) Close() {
	for i := len(p.cancels) - 1; i >= 0; i-- {
		p.cancels[i]()
	}
}

// Reset clears accumulated origin storage and caches on the shared page.
func (p *Page) Reset(ctx context.Context) error {
	rctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()
	return chromedp.Run(rctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpstorage.ClearDataForOrigin("*", "all").Do(ctx)
	}))
}

// OpenPage starts a browser and prepares a tab with the fixed user agent,
// viewport, locale header and currency/country cookies.
func (s *Scraper) OpenPage(ctx context.Context) (*Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	page := &Page{ctx: browserCtx, cancels: []context.CancelFunc{allocCancel, browserCancel}}

	if err := s.preparePage(page); err != nil {
		page.Close()
		return nil, fmt.Errorf("prepare goat page: %w", err)
	}
	return page, nil
}

func (s *Scraper) preparePage(p *Page) error {
	ctx, cancel := context.WithTimeout(p.ctx, 15*time.Second)
	defer cancel()
	return chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for name, value := range map[string]string{"currency": "JPY", "country": "JP"} {
				err := network.SetCookie(name, value).
					WithDomain(s.cookieDomain).
					WithPath("/").
					Do(ctx)
				if err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// Scrape fetches per-size pricing for one product. With page == nil it runs
// in single-product mode on an ephemeral browser that is always closed.
func (s *Scraper) Scrape(ctx context.Context, page *Page, product domain.Product) ([]domain.GoatSizePrice, error) {
	if page == nil {
		p, err := s.OpenPage(ctx)
		if err != nil {
			return nil, err
		}
		defer p.Close()
		page = p
	}

	runCtx, cancel := context.WithTimeout(page.ctx, s.pageTimeout)
	defer cancel()

	var variants []buyBarVariant
	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.baseURL+product.GoatURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		// goat hydrates client-side; give the page a beat to settle before
		// calling its API from inside the page.
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(fmt.Sprintf(buyBarScript, product.GoatID), &variants,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", product.GoatURL, err)
	}

	name, image := s.extractCard(runCtx)
	return buildRecords(variants, product, name, image), nil
}

// extractCard reads the representative image and product name off the active
// carousel slide. A missing carousel is not an error; the scrape proceeds
// without an image.
func (s *Scraper) extractCard(ctx context.Context) (name, image string) {
	waitCtx, cancel := context.WithTimeout(ctx, carouselWait)
	defer cancel()

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(activeSlideSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		s.logger.Debug("carousel slide did not appear, continuing without image", zap.Error(err))
		return "", ""
	}
	return extractProductCard(html)
}
