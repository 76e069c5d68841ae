package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// snapshotMaxPageSize caps a single page from the local snapshot.
const snapshotMaxPageSize = 250

// SnapshotData is the on-disk shape of a local catalog snapshot.
type SnapshotData struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
	Brands     []domain.Brand    `json:"brands"`
}

// Snapshot is an in-memory catalog loaded from a local JSON file. It is
// immutable after construction and safe for concurrent use.
type Snapshot struct {
	products   []domain.Product
	byID       map[int64]int
	categories []domain.Category
	brands     []domain.Brand
}

// NewSnapshot loads a catalog snapshot from the given JSON file. A read or
// parse failure degrades to an empty catalog with a logged diagnostic, so the
// rest of the assistant keeps functioning in a degraded state instead of
// crashing at startup.
func NewSnapshot(path string, logger *slog.Logger) *Snapshot {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("catalog snapshot unavailable, starting with empty catalog",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return NewSnapshotFromData(SnapshotData{})
	}

	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.Warn("catalog snapshot malformed, starting with empty catalog",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return NewSnapshotFromData(SnapshotData{})
	}

	logger.Info("catalog snapshot loaded",
		slog.String("path", path),
		slog.Int("products", len(data.Products)),
		slog.Int("categories", len(data.Categories)),
		slog.Int("brands", len(data.Brands)),
	)
	return NewSnapshotFromData(data)
}

// NewSnapshotFromData builds a snapshot from already-decoded data.
func NewSnapshotFromData(data SnapshotData) *Snapshot {
	byID := make(map[int64]int, len(data.Products))
	for i, p := range data.Products {
		byID[p.ID] = i
	}
	return &Snapshot{
		products:   data.Products,
		byID:       byID,
		categories: data.Categories,
		brands:     data.Brands,
	}
}

// FetchPage returns one offset-addressed window of the snapshot. The page
// token is a decimal offset; empty means the first page.
func (s *Snapshot) FetchPage(ctx context.Context, limit int, pageToken string) (Page, error) {
	if limit <= 0 || limit > snapshotMaxPageSize {
		limit = snapshotMaxPageSize
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return Page{}, apperrors.InvalidInput("page token must be a non-negative offset")
		}
		offset = n
	}

	page := Page{Total: len(s.products), Products: []domain.Product{}}
	if offset >= len(s.products) {
		return page, nil
	}

	end := offset + limit
	if end > len(s.products) {
		end = len(s.products)
	}
	page.Products = s.products[offset:end]

	if end < len(s.products) {
		page.NextToken = strconv.Itoa(end)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		page.PrevToken = strconv.Itoa(prev)
	}
	return page, nil
}

// FetchByID returns the product with the given id.
func (s *Snapshot) FetchByID(ctx context.Context, id int64) (*domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	p := s.products[i]
	return &p, nil
}

// FetchRawTextMatch scans the snapshot in catalog order, stopping as soon as
// limit matches are found. Results therefore preserve catalog order, not
// relevance order.
func (s *Snapshot) FetchRawTextMatch(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = snapshotMaxPageSize
	}

	matches := []domain.Product{}
	for i := range s.products {
		if s.products[i].MatchesQuery(query) {
			matches = append(matches, s.products[i])
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// Categories returns the snapshot's category taxonomy verbatim.
func (s *Snapshot) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

// Brands returns the snapshot's brand list verbatim.
func (s *Snapshot) Brands(ctx context.Context) ([]domain.Brand, error) {
	return s.brands, nil
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.products)
}
