package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/arbitrage-crawler/internal/domain"
)

// UpsertOutcome reports what an upsert did with a reconciled record.
type UpsertOutcome int

const (
	OutcomeInserted UpsertOutcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

// upsertAction is the write a fresh crawl record is allowed to perform given
// the stored row state.
type upsertAction int

const (
	actionInsert upsertAction = iota
	actionUpdate
	actionSkip
)

// planUpsert encodes the dedup policy: no row means insert, a soft-deleted
// row is never touched, an active row refreshes in place.
func planUpsert(found bool, delFlag int) upsertAction {
	switch {
	case !found:
		return actionInsert
	case delFlag == domain.DelFlagSoftDeleted:
		return actionSkip
	default:
		return actionUpdate
	}
}

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// Migrate bootstraps the schema. Timestamps are stored in Asia/Ho_Chi_Minh
// to match the operator dashboard.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			goat_url TEXT NOT NULL,
			goat_id INTEGER UNIQUE NOT NULL,
			snkrdunk_api TEXT NOT NULL,
			type TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS crawled_data (
			id SERIAL PRIMARY KEY,
			product_url VARCHAR(500) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			size_goat VARCHAR(50),
			price_goat DECIMAL(10,2),
			size_snkrdunk VARCHAR(50),
			price_snkrdunk DECIMAL(10,2),
			profit_amount DECIMAL(10,2),
			selling_price DECIMAL(10,2),
			image_url TEXT,
			note TEXT,
			del_flag INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC' AT TIME ZONE 'Asia/Ho_Chi_Minh'),
			updated_at TIMESTAMP DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC' AT TIME ZONE 'Asia/Ho_Chi_Minh')
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crawled_data_url_size ON crawled_data (product_url, size_goat)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ListProducts returns the full tracked-product catalog, oldest first so
// bulk crawls walk it in a stable order.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, goat_url, goat_id, snkrdunk_api, type, created_at, updated_at
		 FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.GoatURL, &p.GoatID, &p.SnkrdunkAPI, &p.Type, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpsertCrawlRow persists one reconciled record under the (product_url,
// size_goat) dedup key. Identity fields (name, image, url, size) are written
// once on insert and never refreshed; only the price/profit comparison
// fields update on an active row. Soft-deleted rows are left untouched.
func (s *PostgresStore) UpsertCrawlRow(ctx context.Context, rec domain.ReconciledRecord) (UpsertOutcome, error) {
	var existing domain.CrawlRow
	err := s.db.QueryRow(ctx,
		`SELECT id, del_flag FROM crawled_data
		 WHERE product_url = $1 AND size_goat = $2
		 ORDER BY id LIMIT 1`,
		rec.ProductURL, rec.SizeGoat,
	).Scan(&existing.ID, &existing.DelFlag)

	found := true
	if errors.Is(err, pgx.ErrNoRows) {
		found = false
	} else if err != nil {
		return 0, fmt.Errorf("look up crawl row: %w", err)
	}

	switch planUpsert(found, existing.DelFlag) {
	case actionInsert:
		_, err := s.db.Exec(ctx,
			`INSERT INTO crawled_data (
				product_url, product_name, size_goat, price_goat,
				size_snkrdunk, price_snkrdunk, profit_amount,
				selling_price, image_url, note, del_flag
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			rec.ProductURL, rec.ProductName, rec.SizeGoat, rec.PriceGoat,
			rec.SizeSnkrdunk, rec.PriceSnkrdunk, rec.ProfitAmount,
			rec.SellingPrice, rec.ImageURL, rec.Note, domain.DelFlagActive)
		if err != nil {
			return 0, fmt.Errorf("insert crawl row: %w", err)
		}
		return OutcomeInserted, nil

	case actionSkip:
		return OutcomeSkipped, nil

	default:
		_, err := s.db.Exec(ctx,
			`UPDATE crawled_data
			 SET price_goat = $1, size_snkrdunk = $2, price_snkrdunk = $3,
			     profit_amount = $4, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $5`,
			rec.PriceGoat, rec.SizeSnkrdunk, rec.PriceSnkrdunk,
			rec.ProfitAmount, existing.ID)
		if err != nil {
			return 0, fmt.Errorf("update crawl row: %w", err)
		}
		return OutcomeUpdated, nil
	}
}
