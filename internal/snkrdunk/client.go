package snkrdunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/domain"
	"github.com/user/arbitrage-crawler/internal/sizes"
)

// ErrUnauthorized signals that the session cookie was rejected. The caller
// owns session recovery; this client never retries.
var ErrUnauthorized = errors.New("snkrdunk: unauthorized")

// Client fetches per-size listing prices from the snkrdunk API using an
// established session.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Shoe listings nest entries under "data" with centimeter sizes; clothing
// listings are a flat array with label sizes.
type shoeEntry struct {
	Size  float64 `json:"size"`
	Price float64 `json:"price"`
}

type shoeResponse struct {
	Data []shoeEntry `json:"data"`
}

type clothingEntry struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// FetchSizePrices issues one authenticated GET against the listing API and
// returns the normalized size/price pairs. Entries whose size cannot be
// normalized are dropped, not errors.
func (c *Client) FetchSizePrices(ctx context.Context, sess *Session, apiPath, productType string) ([]domain.SizePrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", sess.Cookie)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snkrdunk request %s: %w", apiPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnauthorized, apiPath, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("snkrdunk request %s: unexpected status %d", apiPath, resp.StatusCode)
	}

	if productType == domain.ProductTypeShoe {
		var body shoeResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode shoe listing %s: %w", apiPath, err)
		}
		return c.normalizeShoes(body.Data), nil
	}

	var body []clothingEntry
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode clothing listing %s: %w", apiPath, err)
	}
	return c.normalizeClothing(body), nil
}

func (c *Client) normalizeShoes(entries []shoeEntry) []domain.SizePrice {
	out := make([]domain.SizePrice, 0, len(entries))
	for _, e := range entries {
		us, ok := sizes.ShoeSizeFromCm(e.Size)
		if !ok {
			c.logger.Debug("dropping unmappable shoe size", zap.Float64("cm", e.Size))
			continue
		}
		if !sizes.InShoeBand(us) {
			continue
		}
		out = append(out, domain.SizePrice{Size: us, Price: e.Price})
	}
	return out
}

func (c *Client) normalizeClothing(entries []clothingEntry) []domain.SizePrice {
	out := make([]domain.SizePrice, 0, len(entries))
	for _, e := range entries {
		label, ok := sizes.ClothingAlias(e.Size)
		if !ok {
			continue
		}
		out = append(out, domain.SizePrice{Size: label, Price: e.Price})
	}
	return out
}
