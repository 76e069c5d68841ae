// Package catalog abstracts where products come from: a local JSON snapshot
// or a remote paginated commerce API. Accessor implementations own no
// business logic; filtering and ranking live in the engine package.
package catalog

import (
	"context"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// TotalUnknown marks a Page whose source cannot report a total count without
// walking every page (cursor-paginated remote sources).
const TotalUnknown = -1

// Page is one window of products from a source.
//
// Offset-based sources use decimal offsets as their page tokens and report
// Total; cursor-based sources return opaque tokens verbatim and report
// TotalUnknown.
type Page struct {
	Products  []domain.Product
	NextToken string
	PrevToken string
	Total     int
}

// Accessor is the capability set the query engine is programmed against.
//
// Implementations clamp limit to the source's maximum page size; exceeding it
// is not an error. Transport, auth, or parse failures surface as a
// SOURCE_UNAVAILABLE application error and are not retried here beyond the
// shared HTTP client policy; retry strategy belongs to the caller.
type Accessor interface {
	// FetchPage returns up to limit products. An empty pageToken means the
	// first page.
	FetchPage(ctx context.Context, limit int, pageToken string) (Page, error)

	// FetchByID returns the product with the given id, or a NOT_FOUND
	// application error.
	FetchByID(ctx context.Context, id int64) (*domain.Product, error)

	// FetchRawTextMatch returns up to limit products matching the query,
	// delegating to the source when it supports server-side matching.
	FetchRawTextMatch(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

// TaxonomyProvider is an optional capability for sources that carry an
// explicit category/brand taxonomy. The query engine falls back to deriving
// the taxonomy from product records for sources that lack it.
type TaxonomyProvider interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
}
