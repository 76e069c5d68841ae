package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

func TestSimilarityScore(t *testing.T) {
	ref := domain.Product{ID: 1, Category: "Outdoor", Subcategory: "Tents", Tags: []string{"camping", "summer"}}

	tests := []struct {
		name      string
		candidate domain.Product
		want      int
	}{
		{"identical taxonomy and tags", domain.Product{Category: "Outdoor", Subcategory: "Tents", Tags: []string{"camping", "summer"}}, 5},
		{"same category only", domain.Product{Category: "Outdoor"}, 1},
		{"same subcategory only", domain.Product{Subcategory: "Tents"}, 2},
		{"one shared tag", domain.Product{Tags: []string{"camping", "winter"}}, 1},
		{"case-insensitive matching", domain.Product{Category: "outdoor", Tags: []string{"CAMPING"}}, 2},
		{"nothing shared", domain.Product{Category: "Kitchen", Tags: []string{"steel"}}, 0},
		{"empty fields never match empty", domain.Product{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimilarityScore(&tt.candidate, &ref))
		})
	}
}

func TestSimilarityScore_SharedTagNeverDecreasesScore(t *testing.T) {
	ref := domain.Product{Category: "Outdoor", Tags: []string{"camping", "summer", "family"}}
	candidate := domain.Product{Category: "Outdoor"}

	prev := SimilarityScore(&candidate, &ref)
	for _, tag := range ref.Tags {
		candidate.Tags = append(candidate.Tags, tag)
		score := SimilarityScore(&candidate, &ref)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestPreferenceScore(t *testing.T) {
	profile := domain.PreferenceProfile{
		Categories: []string{"Electronics"},
		Brands:     []string{"Soundline"},
		Tags:       []string{"wireless", "compact"},
	}

	full := domain.Product{Category: "Electronics", Brand: "Soundline", Tags: []string{"wireless", "compact"}}
	assert.Equal(t, 6, PreferenceScore(&full, profile))

	brandOnly := domain.Product{Brand: "soundline"}
	assert.Equal(t, 2, PreferenceScore(&brandOnly, profile))

	none := domain.Product{Category: "Furniture", Brand: "Oakly"}
	assert.Equal(t, 0, PreferenceScore(&none, profile))
}

func TestRankByScore_ExcludesZeroAndIsStable(t *testing.T) {
	products := []domain.Product{
		{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4},
	}
	scores := map[int64]int{1: 2, 2: 0, 3: 2, 4: 5}

	ranked := rankByScore(products, func(p *domain.Product) int { return scores[p.ID] })

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(4), ranked[0].ID)
	// 1 and 3 tie on score and keep catalog order.
	assert.Equal(t, int64(1), ranked[1].ID)
	assert.Equal(t, int64(3), ranked[2].ID)
}

func TestRankByRating_TiesBreakOnStock(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Rating: 4.0, StockQuantity: 2},
		{ID: 2, Rating: 4.0, StockQuantity: 9},
		{ID: 3, Rating: 4.8, StockQuantity: 0},
	}

	ranked := rankByRating(products)
	assert.Equal(t, int64(3), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
}

func TestRankByPopularity_FallsBackToRating(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Rating: 4.5},
		{ID: 2, Popularity: 90, Rating: 1.0},
		{ID: 3, Rating: 5.0},
	}

	ranked := rankByPopularity(products)
	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, int64(3), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
}

func TestRankByDiscount(t *testing.T) {
	products := []domain.Product{
		{ID: 1, DiscountPercentage: 10},
		{ID: 2, DiscountPercentage: 50},
		{ID: 3}, // no discount, excluded
		{ID: 4, Variants: []domain.Variant{{Price: 80, CompareAtPrice: 100}}},
	}

	ranked := rankByDiscount(products)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, int64(4), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
}

func TestTop(t *testing.T) {
	products := []domain.Product{{ID: 1}, {ID: 2}, {ID: 3}}

	assert.Len(t, top(products, 2), 2)
	assert.Len(t, top(products, 10), 3)
	assert.Len(t, top(products, 0), 3)
}
