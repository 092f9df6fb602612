package goat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/arbitrage-crawler/internal/domain"
)

func TestSizeTokenUnmarshal(t *testing.T) {
	var v struct {
		Size sizeToken `json:"size"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"size":9.5}`), &v))
	assert.Equal(t, sizeToken("9.5"), v.Size)

	require.NoError(t, json.Unmarshal([]byte(`{"size":10}`), &v))
	assert.Equal(t, sizeToken("10"), v.Size)

	require.NoError(t, json.Unmarshal([]byte(`{"size":"XL"}`), &v))
	assert.Equal(t, sizeToken("XL"), v.Size)
}

func TestBuildRecordsFiltersConditionsAndStock(t *testing.T) {
	product := domain.Product{GoatURL: "/sneakers/air-max-1", Type: domain.ProductTypeShoe}
	variants := []buyBarVariant{
		{Size: "9.5", ShoeCondition: conditionNewNoDefects, StockStatus: "single", LowestPriceCents: priceCents{Amount: 1234500}},
		{Size: "10", ShoeCondition: "used", StockStatus: "single", LowestPriceCents: priceCents{Amount: 900000}},
		{Size: "10.5", ShoeCondition: conditionNewNoDefects, StockStatus: stockStatusOut, LowestPriceCents: priceCents{Amount: 1100000}},
		// US 2 is below the plausible shoe band.
		{Size: "2", ShoeCondition: conditionNewNoDefects, StockStatus: "single", LowestPriceCents: priceCents{Amount: 500000}},
	}

	got := buildRecords(variants, product, "Air Max 1", "https://img.goat.com/air-max-1.png")

	require.Len(t, got, 1)
	assert.Equal(t, domain.GoatSizePrice{
		Size:        "9.5",
		Price:       12345,
		ProductURL:  "/sneakers/air-max-1",
		ProductName: "Air Max 1",
		ImageURL:    "https://img.goat.com/air-max-1.png",
	}, got[0])
}

func TestBuildRecordsClothingSkipsShoeBand(t *testing.T) {
	product := domain.Product{GoatURL: "/apparel/box-logo-tee", Type: domain.ProductTypeClothes}
	variants := []buyBarVariant{
		{Size: "XL", ShoeCondition: conditionNewNoDefects, StockStatus: "multiple", LowestPriceCents: priceCents{Amount: 980000}},
	}

	got := buildRecords(variants, product, "Box Logo Tee", "")

	require.Len(t, got, 1)
	assert.Equal(t, "XL", got[0].Size)
	assert.Equal(t, 9800.0, got[0].Price)
}

func TestExtractProductCard(t *testing.T) {
	html := `<html><body>
		<div class="swiper">
			<div class="swiper-slide"><img src="https://img.goat.com/other.png" alt="Other Angle"></div>
			<div class="swiper-slide-active"><img src="https://img.goat.com/main.png" alt="Air Jordan 1 Retro High OG"></div>
		</div>
	</body></html>`

	name, image := extractProductCard(html)

	assert.Equal(t, "Air Jordan 1 Retro High OG", name)
	assert.Equal(t, "https://img.goat.com/main.png", image)
}

func TestExtractProductCardMissingCarousel(t *testing.T) {
	name, image := extractProductCard(`<html><body><h1>nothing here</h1></body></html>`)

	assert.Empty(t, name)
	assert.Empty(t, image)
}
