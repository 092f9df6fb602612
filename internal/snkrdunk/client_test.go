package snkrdunk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/arbitrage-crawler/internal/domain"
)

func TestFetchSizePricesShoe(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		assert.Equal(t, "/v1/sneakers/123/sizes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// 19cm is below the mapped range, 21cm maps to US 3 which falls
		// outside the shoe band. Both must be dropped.
		w.Write([]byte(`{"data":[
			{"size":27.5,"price":12345},
			{"size":28,"price":13000},
			{"size":19,"price":9999},
			{"size":21,"price":8000}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, zap.NewNop())
	got, err := c.FetchSizePrices(context.Background(), &Session{Cookie: "sess=abc"}, "/v1/sneakers/123/sizes", domain.ProductTypeShoe)

	require.NoError(t, err)
	assert.Equal(t, "sess=abc", gotCookie)
	assert.Equal(t, []domain.SizePrice{
		{Size: "9.5", Price: 12345},
		{Size: "10", Price: 13000},
	}, got)
}

func TestFetchSizePricesClothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"size":"M","price":9800},
			{"size":"XXL","price":10800},
			{"size":"","price":5000}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, zap.NewNop())
	got, err := c.FetchSizePrices(context.Background(), &Session{Cookie: "sess=abc"}, "/v1/apparel/55/sizes", domain.ProductTypeClothes)

	require.NoError(t, err)
	assert.Equal(t, []domain.SizePrice{
		{Size: "M", Price: 9800},
		{Size: "2XL", Price: 10800},
	}, got)
}

func TestFetchSizePricesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, zap.NewNop())
	_, err := c.FetchSizePrices(context.Background(), &Session{Cookie: "sess=stale"}, "/v1/sneakers/123/sizes", domain.ProductTypeShoe)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestFetchSizePricesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, zap.NewNop())
	_, err := c.FetchSizePrices(context.Background(), &Session{Cookie: "sess=abc"}, "/v1/sneakers/123/sizes", domain.ProductTypeShoe)

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
