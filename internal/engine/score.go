package engine

import (
	"sort"
	"strings"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// SimilarityScore measures how alike a candidate is to a reference product.
// Shared subcategory counts double, shared category counts once, and every
// shared tag adds one.
func SimilarityScore(candidate, reference *domain.Product) int {
	score := 0
	if candidate.Subcategory != "" && strings.EqualFold(candidate.Subcategory, reference.Subcategory) {
		score += 2
	}
	if candidate.Category != "" && strings.EqualFold(candidate.Category, reference.Category) {
		score++
	}
	score += sharedTagCount(candidate.Tags, reference.Tags)
	return score
}

// PreferenceScore measures how well a candidate fits a preference profile.
// Preferred category and preferred brand each count double; every shared tag
// adds one.
func PreferenceScore(candidate *domain.Product, profile domain.PreferenceProfile) int {
	score := 0
	if containsFold(profile.Categories, candidate.Category) {
		score += 2
	}
	if containsFold(profile.Brands, candidate.Brand) {
		score += 2
	}
	score += sharedTagCount(candidate.Tags, profile.Tags)
	return score
}

func sharedTagCount(a, b []string) int {
	count := 0
	for _, t := range a {
		if containsFold(b, t) {
			count++
		}
	}
	return count
}

func containsFold(set []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// rankByScore drops zero-scoring candidates and orders the rest by descending
// score. The sort is stable so equal scores keep their catalog order.
func rankByScore(products []domain.Product, score func(*domain.Product) int) []domain.Product {
	type scored struct {
		product domain.Product
		score   int
	}

	ranked := make([]scored, 0, len(products))
	for i := range products {
		if s := score(&products[i]); s > 0 {
			ranked = append(ranked, scored{product: products[i], score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]domain.Product, len(ranked))
	for i, r := range ranked {
		out[i] = r.product
	}
	return out
}

// rankByRating orders products by rating descending, breaking ties by total
// stock descending and then catalog order. This is the default ranking when
// no reference product or preference profile applies.
func rankByRating(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TotalInventory() > out[j].TotalInventory()
	})
	return out
}

// rankByPopularity orders products by a source-provided popularity signal
// descending, falling back to rating for sources that carry none. Ties keep
// catalog order.
func rankByPopularity(products []domain.Product) []domain.Product {
	key := func(p *domain.Product) float64 {
		if p.Popularity > 0 {
			return p.Popularity
		}
		return p.Rating
	}

	out := make([]domain.Product, len(products))
	copy(out, products)

	sort.SliceStable(out, func(i, j int) bool {
		return key(&out[i]) > key(&out[j])
	})
	return out
}

// rankByDiscount drops undiscounted products and orders the rest by discount
// magnitude descending. Ties keep catalog order.
func rankByDiscount(products []domain.Product) []domain.Product {
	deals := make([]domain.Product, 0, len(products))
	for i := range products {
		if products[i].DiscountValue() > 0 {
			deals = append(deals, products[i])
		}
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].DiscountValue() > deals[j].DiscountValue()
	})
	return deals
}

func top(products []domain.Product, limit int) []domain.Product {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}
