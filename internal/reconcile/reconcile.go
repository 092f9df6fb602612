// Package reconcile joins the two marketplaces' price lists by normalized
// size and computes the profit estimate. It is pure: no I/O, no clock.
package reconcile

import "github.com/user/arbitrage-crawler/internal/domain"

// Profit model constants, all in JPY. netRate is goat's payout after seller
// fees, flatFee covers shipping, buyerMarkup is snkrdunk's buyer-side fee.
const (
	netRate     = 0.76
	flatFee     = 1500.0
	buyerMarkup = 1.10
)

// Profit estimates the margin of buying one unit on snkrdunk and selling it
// on goat.
func Profit(priceGoat, priceSnkrdunk float64) float64 {
	return priceGoat*netRate - flatFee - priceSnkrdunk*buyerMarkup
}

// Merge joins snkrdunk prices against goat records by normalized size. The
// goat side is authoritative: every goat record yields exactly one output.
// Sizes with no snkrdunk price get zero price and zero profit.
func Merge(snkrPrices []domain.SizePrice, goatRecords []domain.GoatSizePrice) []domain.ReconciledRecord {
	bySize := make(map[string]float64, len(snkrPrices))
	for _, p := range snkrPrices {
		bySize[p.Size] = p.Price
	}

	out := make([]domain.ReconciledRecord, 0, len(goatRecords))
	for _, g := range goatRecords {
		rec := domain.ReconciledRecord{
			ProductURL:  g.ProductURL,
			ProductName: g.ProductName,
			ImageURL:    g.ImageURL,
			SizeGoat:    g.Size,
			PriceGoat:   g.Price,
		}
		if price, ok := bySize[g.Size]; ok {
			rec.SizeSnkrdunk = g.Size
			rec.PriceSnkrdunk = price
			rec.ProfitAmount = Profit(g.Price, price)
		}
		out = append(out, rec)
	}
	return out
}
