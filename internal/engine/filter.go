// Package engine implements the product query engine: predicate filtering,
// similarity and preference scoring, ranking policies, and the query service
// facade that composes them over a catalog accessor.
package engine

import (
	"strings"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// Matches reports whether the product satisfies every constrained dimension of
// the criteria. Predicates combine by conjunction; an absent field is
// vacuously true for its dimension.
func Matches(p *domain.Product, c domain.Criteria) bool {
	if c.Category != "" && !strings.EqualFold(p.Category, c.Category) {
		return false
	}
	// Products without a subcategory field (remote sources lack one) pass the
	// subcategory predicate unconditionally.
	if c.Subcategory != "" && p.Subcategory != "" && !strings.EqualFold(p.Subcategory, c.Subcategory) {
		return false
	}
	if c.Brand != "" && !strings.EqualFold(p.Brand, c.Brand) {
		return false
	}

	price := p.PrimaryPrice()
	if c.MinPrice != nil && price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && price > *c.MaxPrice {
		return false
	}

	// Missing rating counts as 0, so a positive floor excludes unrated
	// products.
	if c.MinRating != nil && p.Rating < *c.MinRating {
		return false
	}

	if len(c.Colors) > 0 && !intersects(c.Colors, p.Colors) {
		return false
	}
	if len(c.Tags) > 0 && !intersects(c.Tags, p.Tags) {
		return false
	}

	// Only a truthy in_stock activates the predicate; absence never excludes
	// on the basis of being out of stock.
	if c.InStock && !p.InStock() {
		return false
	}

	return true
}

// intersects reports whether the two sets share at least one element,
// case-insensitively.
func intersects(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}
