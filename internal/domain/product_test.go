package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryPrice_FlatPrice(t *testing.T) {
	p := Product{Price: 49.99}
	assert.Equal(t, 49.99, p.PrimaryPrice())
}

func TestPrimaryPrice_LowestVariantWins(t *testing.T) {
	p := Product{
		Price: 100,
		Variants: []Variant{
			{Price: 34.50},
			{Price: 29.99},
			{Price: 41.00},
		},
	}
	assert.Equal(t, 29.99, p.PrimaryPrice())
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		expected float64
	}{
		{"no discount", Product{Price: 100}, 100},
		{"ten percent off", Product{Price: 100, DiscountPercentage: 10}, 90},
		{"half off", Product{Price: 50, DiscountPercentage: 50}, 25},
		{"full discount", Product{Price: 80, DiscountPercentage: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.product.EffectivePrice(), 1e-9)
		})
	}
}

func TestSavings(t *testing.T) {
	p := Product{Price: 200, DiscountPercentage: 25}
	assert.InDelta(t, 50, p.Savings(), 1e-9)
}

func TestTotalInventory(t *testing.T) {
	flat := Product{StockQuantity: 7}
	assert.Equal(t, 7, flat.TotalInventory())

	withVariants := Product{
		StockQuantity: 99, // ignored when variants exist
		Variants: []Variant{
			{InventoryQuantity: 3},
			{InventoryQuantity: 0},
			{InventoryQuantity: 5},
		},
	}
	assert.Equal(t, 8, withVariants.TotalInventory())
}

func TestInStock(t *testing.T) {
	assert.True(t, (&Product{StockQuantity: 1}).InStock())
	assert.False(t, (&Product{StockQuantity: 0}).InStock())
	assert.False(t, (&Product{Variants: []Variant{{InventoryQuantity: 0}}}).InStock())
}

func TestDiscountValue(t *testing.T) {
	flat := Product{DiscountPercentage: 30}
	assert.Equal(t, 30.0, flat.DiscountValue())

	compareAt := Product{
		Variants: []Variant{{Price: 19.99, CompareAtPrice: 24.99}},
	}
	assert.InDelta(t, 5.0, compareAt.DiscountValue(), 1e-9)

	none := Product{Variants: []Variant{{Price: 10}}}
	assert.Equal(t, 0.0, none.DiscountValue())
}

func TestCriteria_IsZero(t *testing.T) {
	assert.True(t, Criteria{Limit: 20, Offset: 5}.IsZero())

	min := 10.0
	assert.False(t, Criteria{MinPrice: &min}.IsZero())
	assert.False(t, Criteria{Category: "Electronics"}.IsZero())
	assert.False(t, Criteria{InStock: true}.IsZero())
}

func TestCriteria_Satisfiable(t *testing.T) {
	low, high := 10.0, 100.0

	assert.True(t, Criteria{}.Satisfiable())
	assert.True(t, Criteria{MinPrice: &low, MaxPrice: &high}.Satisfiable())
	assert.True(t, Criteria{MinPrice: &low, MaxPrice: &low}.Satisfiable())
	assert.False(t, Criteria{MinPrice: &high, MaxPrice: &low}.Satisfiable())
}

func TestPreferenceProfile_IsZero(t *testing.T) {
	assert.True(t, PreferenceProfile{}.IsZero())
	assert.False(t, PreferenceProfile{Tags: []string{"eco"}}.IsZero())
}
