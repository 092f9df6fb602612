package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/crawler"
	"github.com/user/arbitrage-crawler/internal/domain"
)

func (s *Server) handleCrawlData(w http.ResponseWriter, r *http.Request) {
	var req domain.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.GoatURL == "" || req.GoatID == 0 || req.SnkrdunkAPI == "" || req.Type == "" {
		s.respondWithError(w, http.StatusBadRequest,
			"All fields are required: goat_url, goat_id, snkrdunk_api, type")
		return
	}
	if req.Type != domain.ProductTypeShoe && req.Type != domain.ProductTypeClothes {
		s.respondWithError(w, http.StatusBadRequest, "type must be SHOE or CLOTHES")
		return
	}

	product := domain.Product{
		GoatURL:     req.GoatURL,
		GoatID:      req.GoatID,
		SnkrdunkAPI: req.SnkrdunkAPI,
		Type:        req.Type,
	}

	result, err := s.service.CrawlProduct(r.Context(), product)
	if err != nil {
		s.logger.Error("ad-hoc crawl failed", zap.String("goat_url", req.GoatURL), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Failed to crawl product")
		return
	}

	if result.Total == 0 {
		s.respondWithJSON(w, http.StatusOK, map[string]string{
			"message": "no size data found for product",
		})
		return
	}

	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleCrawlAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.CrawlAll(r.Context())
	if err != nil {
		if errors.Is(err, crawler.ErrCrawlInProgress) {
			s.respondWithError(w, http.StatusConflict, "A bulk crawl is already in progress")
			return
		}
		s.logger.Error("bulk crawl failed", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Bulk crawl failed")
		return
	}

	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if err := s.db.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	if err := s.cache.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	if healthStatus["postgres"] != "healthy" || healthStatus["redis"] != "healthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
