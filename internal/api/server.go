package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/config"
	"github.com/user/arbitrage-crawler/internal/domain"
)

// CrawlService is the orchestrator surface the HTTP handlers trigger.
type CrawlService interface {
	CrawlProduct(ctx context.Context, product domain.Product) (*domain.ProductResult, error)
	CrawlAll(ctx context.Context) (*domain.BulkResult, error)
}

// Pinger is a dependency health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	service    CrawlService
	db         Pinger
	cache      Pinger
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, service CrawlService, db, cache Pinger, logger *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		service: service,
		db:      db,
		cache:   cache,
		logger:  logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:     s.router,
		ReadTimeout: 10 * time.Second,
		// Crawl handlers are synchronous and a full catalog pass runs for
		// minutes, so no write timeout here; every downstream call carries
		// its own timeout.
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
