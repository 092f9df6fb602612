package sizes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoeSizeFromCm(t *testing.T) {
	tests := []struct {
		name string
		cm   float64
		want string
		ok   bool
	}{
		{"below range", 19, "", false},
		{"smallest mapped", 20, "2", true},
		{"half step", 27.5, "9.5", true},
		{"whole step", 28, "10", true},
		{"largest mapped", 32, "14", true},
		{"above range", 33, "", false},
		{"off-grid value", 27.3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ShoeSizeFromCm(tt.cm)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClothingAlias(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"empty", "", "", false},
		{"plain size passes through", "M", "M", true},
		{"XL passes through", "XL", "XL", true},
		{"double XL alias", "XXL", "2XL", true},
		{"triple XL alias", "XXXL", "3XL", true},
		{"quadruple XL alias", "XXXXL", "4XL", true},
		{"unknown token passes through", "FREE", "FREE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClothingAlias(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClothingAliasIdempotent(t *testing.T) {
	for _, canonical := range []string{"S", "M", "L", "XL", "2XL", "3XL", "4XL"} {
		got, ok := ClothingAlias(canonical)
		assert.True(t, ok)
		assert.Equal(t, canonical, got)
	}
}

func TestInShoeBand(t *testing.T) {
	assert.True(t, InShoeBand("3.5"))
	assert.True(t, InShoeBand("9.5"))
	assert.True(t, InShoeBand("15"))
	assert.False(t, InShoeBand("3"))
	assert.False(t, InShoeBand("15.5"))
	assert.False(t, InShoeBand("XL"))
	assert.False(t, InShoeBand(""))
}
