package goat

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/arbitrage-crawler/internal/domain"
	"github.com/user/arbitrage-crawler/internal/sizes"
)

const activeSlideSelector = ".swiper-slide-active img"

const (
	conditionNewNoDefects = "new_no_defects"
	stockStatusOut        = "not_in_stock"
)

// buyBarVariant is one entry of the buy-bar payload.
type buyBarVariant struct {
	Size             sizeToken  `json:"size"`
	ShoeCondition    string     `json:"shoeCondition"`
	BoxCondition     string     `json:"boxCondition"`
	StockStatus      string     `json:"stockStatus"`
	LowestPriceCents priceCents `json:"lowestPriceCents"`
}

type priceCents struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// sizeToken accepts goat's size field, which is numeric for sneakers and a
// label string for apparel, as one canonical token.
type sizeToken string

func (t *sizeToken) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = sizeToken(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = sizeToken(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// buildRecords filters raw variants down to sellable ones and shapes them
// into scrape output. Only new, in-stock listings count; shoe sizes must fall
// in the plausible band.
func buildRecords(variants []buyBarVariant, product domain.Product, name, image string) []domain.GoatSizePrice {
	out := make([]domain.GoatSizePrice, 0, len(variants))
	for _, v := range variants {
		if v.ShoeCondition != conditionNewNoDefects || v.StockStatus == stockStatusOut {
			continue
		}
		size := string(v.Size)
		if product.Type == domain.ProductTypeShoe && !sizes.InShoeBand(size) {
			continue
		}
		out = append(out, domain.GoatSizePrice{
			Size:        size,
			Price:       v.LowestPriceCents.Amount / 100,
			ProductURL:  product.GoatURL,
			ProductName: name,
			ImageURL:    image,
		})
	}
	return out
}

// extractProductCard pulls the representative image URL and product name
// (the image alt text) from the active carousel slide.
func extractProductCard(html string) (name, image string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}
	img := doc.Find(activeSlideSelector).First()
	image = img.AttrOr("src", "")
	name = strings.TrimSpace(img.AttrOr("alt", ""))
	return name, image
}
