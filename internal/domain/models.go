package domain

import "time"

// Product type tags. They govern size normalization and filtering rules.
const (
	ProductTypeShoe    = "SHOE"
	ProductTypeClothes = "CLOTHES"
)

// del_flag values on stored crawl rows.
const (
	DelFlagActive      = 0
	DelFlagSoftDeleted = 2
)

// Product is one tracked catalog entry. The catalog is maintained by the
// admin CRUD surface; this service only reads it.
type Product struct {
	ID          int64
	GoatURL     string // page path on goat.com, e.g. "/sneakers/air-jordan-1-..."
	GoatID      int64  // goat product template id, used by the buy-bar API
	SnkrdunkAPI string // snkrdunk listing API path for this product
	Type        string // SHOE or CLOTHES
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SizePrice is one normalized snkrdunk size/price pair. Ephemeral, produced
// per fetch.
type SizePrice struct {
	Size  string
	Price float64
}

// GoatSizePrice is one normalized goat size/price pair plus the product
// identity scraped off the page. Ephemeral, produced per scrape.
type GoatSizePrice struct {
	Size        string
	Price       float64
	ProductURL  string
	ProductName string
	ImageURL    string
}

// ReconciledRecord is the merge output for one (product, size) pair and the
// unit of persistence.
type ReconciledRecord struct {
	ProductURL    string
	ProductName   string
	ImageURL      string
	SizeGoat      string
	PriceGoat     float64
	SizeSnkrdunk  string
	PriceSnkrdunk float64
	ProfitAmount  float64
	SellingPrice  float64
	Note          string
}

// CrawlRow is a stored crawled_data row. At most one active row exists per
// (ProductURL, SizeGoat) pair.
type CrawlRow struct {
	ID int64
	ReconciledRecord
	DelFlag   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CrawlRequest is the payload for POST /api/crawl-data.
type CrawlRequest struct {
	GoatURL     string `json:"goat_url"`
	GoatID      int64  `json:"goat_id"`
	SnkrdunkAPI string `json:"snkrdunk_api"`
	Type        string `json:"type"`
}

// ProductResult summarizes the outcome of crawling one product.
type ProductResult struct {
	ProductURL string `json:"product_url"`
	Saved      int    `json:"records_saved"`
	Skipped    int    `json:"records_skipped"`
	Total      int    `json:"records_total"`
	Error      string `json:"error,omitempty"`
}

// BulkResult summarizes a full catalog pass.
type BulkResult struct {
	TotalProducts int             `json:"total_products"`
	SuccessCount  int             `json:"success_count"`
	ErrorCount    int             `json:"error_count"`
	SuccessRate   string          `json:"success_rate"`
	Results       []ProductResult `json:"results"`
}
