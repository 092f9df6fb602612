// Package sizes normalizes marketplace size encodings to the canonical US
// tokens used as the join key between snkrdunk and goat listings.
package sizes

import "strconv"

// Shoe sizes outside this US band are treated as listing noise and dropped.
const (
	MinShoeSize = 3.5
	MaxShoeSize = 15
)

// snkrdunk reports shoe sizes in centimeters. Valid range is 20.0–32.0 cm
// inclusive, in half-centimeter steps.
var cmToUS = map[float64]string{
	20:   "2",
	20.5: "2.5",
	21:   "3",
	21.5: "3.5",
	22:   "4",
	22.5: "4.5",
	23:   "5",
	23.5: "5.5",
	24:   "6",
	24.5: "6.5",
	25:   "7",
	25.5: "7.5",
	26:   "8",
	26.5: "8.5",
	27:   "9",
	27.5: "9.5",
	28:   "10",
	28.5: "10.5",
	29:   "11",
	29.5: "11.5",
	30:   "12",
	30.5: "12.5",
	31:   "13",
	31.5: "13.5",
	32:   "14",
}

// Oversized clothing tokens snkrdunk spells out; everything else already
// matches goat's labels.
var clothingAliases = map[string]string{
	"XXL":   "2XL",
	"XXXL":  "3XL",
	"XXXXL": "4XL",
}

// ShoeSizeFromCm maps a snkrdunk centimeter size to a US size token.
// Returns ok=false for sizes outside the mapped range, which callers must
// drop rather than persist.
func ShoeSizeFromCm(cm float64) (string, bool) {
	us, ok := cmToUS[cm]
	return us, ok
}

// ClothingAlias canonicalizes a clothing size label. Non-alias labels pass
// through unchanged; empty input returns ok=false.
func ClothingAlias(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if alias, ok := clothingAliases[raw]; ok {
		return alias, true
	}
	return raw, true
}

// InShoeBand reports whether a normalized US size token falls in the
// plausible shoe-size band.
func InShoeBand(size string) bool {
	v, err := strconv.ParseFloat(size, 64)
	if err != nil {
		return false
	}
	return v >= MinShoeSize && v <= MaxShoeSize
}
