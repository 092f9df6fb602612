package crawler

import (
	"context"

	"github.com/user/arbitrage-crawler/internal/domain"
	"github.com/user/arbitrage-crawler/internal/goat"
)

// goatAdapter bridges the concrete goat.Scraper to the orchestrator's
// Scraper interface.
type goatAdapter struct {
	s *goat.Scraper
}

// NewGoatScraper wraps a goat.Scraper for use by the orchestrator.
func NewGoatScraper(s *goat.Scraper) Scraper {
	return goatAdapter{s: s}
}

func (a goatAdapter) OpenPage(ctx context.Context) (Page, error) {
	return a.s.OpenPage(ctx)
}

func (a goatAdapter) Scrape(ctx context.Context, page Page, product domain.Product) ([]domain.GoatSizePrice, error) {
	var p *goat.Page
	if page != nil {
		p = page.(*goat.Page)
	}
	return a.s.Scrape(ctx, p, product)
}
