package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"
	"github.com/ketanjain7981/shop-savy/pkg/pagination"

	"github.com/ketanjain7981/shop-savy/internal/catalog"
	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// Default result window per operation, matching the assistant's conversational
// defaults.
const (
	DefaultListLimit      = 20
	DefaultSearchLimit    = 10
	DefaultFilterLimit    = 20
	DefaultRecommendLimit = 5
	DefaultTrendingLimit  = 5
	DefaultDealsLimit     = 5

	MaxListLimit = 250

	// maxCandidatePages bounds how many pages a full-catalog walk may pull
	// from a remote source before giving up the scan.
	maxCandidatePages = 40
)

// Recommendation basis values echoed back to the caller.
const (
	BasisReference   = "reference_product"
	BasisPreferences = "preferences"
	BasisTopRated    = "top_rated"
)

// Events receives analytics signals emitted by the query service. Emission is
// fire-and-forget; implementations must never block or fail a query.
type Events interface {
	SearchPerformed(ctx context.Context, query string, results int)
	ProductViewed(ctx context.Context, productID int64)
	RecommendationsServed(ctx context.Context, basis string, results int)
}

// NopEvents discards all analytics signals.
type NopEvents struct{}

func (NopEvents) SearchPerformed(context.Context, string, int)       {}
func (NopEvents) ProductViewed(context.Context, int64)               {}
func (NopEvents) RecommendationsServed(context.Context, string, int) {}

// Service composes the catalog accessor, predicate filter, and ranking
// policies into the retrieval operations. It is stateless; every call is
// independently evaluable and safe to run concurrently.
type Service struct {
	catalog  catalog.Accessor
	taxonomy catalog.TaxonomyProvider // nil when the source carries none
	events   Events
	logger   *slog.Logger
}

// NewService creates the query service. taxonomy may be nil; the service then
// derives category and brand facets from product records. events may be nil.
func NewService(accessor catalog.Accessor, taxonomy catalog.TaxonomyProvider, events Events, logger *slog.Logger) *Service {
	if events == nil {
		events = NopEvents{}
	}
	return &Service{
		catalog:  accessor,
		taxonomy: taxonomy,
		events:   events,
		logger:   logger,
	}
}

// ListResult is one page of the raw catalog.
type ListResult struct {
	Products   []domain.Product `json:"products"`
	Total      int              `json:"total,omitempty"`
	Limit      int              `json:"limit"`
	NextCursor string           `json:"next_cursor,omitempty"`
	PrevCursor string           `json:"prev_cursor,omitempty"`
}

// SearchResult is the outcome of a free-text search.
type SearchResult struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Products []domain.Product `json:"results"`
}

// FilterResult is a filtered, paginated slice of the catalog. TotalMatched
// reports the match count before pagination.
type FilterResult struct {
	Products     []domain.Product `json:"products"`
	TotalMatched int              `json:"total_matched"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
	Filters      domain.Criteria  `json:"filters"`
}

// RecommendationResult carries ranked recommendations plus the basis used to
// produce them.
type RecommendationResult struct {
	Basis    string           `json:"basis"`
	Count    int              `json:"count"`
	Products []domain.Product `json:"recommendations"`
}

// RankedResult is a ranked top-N list (trending, deals).
type RankedResult struct {
	Count    int              `json:"count"`
	Products []domain.Product `json:"products"`
}

// ProductDetail is a single product augmented with derived pricing and up to
// three similar products.
type ProductDetail struct {
	Product         domain.Product   `json:"product"`
	EffectivePrice  float64          `json:"effective_price"`
	Savings         float64          `json:"savings"`
	InStock         bool             `json:"in_stock"`
	Recommendations []domain.Product `json:"recommendations,omitempty"`
}

// GetAllProducts returns one page of the catalog in source order.
func (s *Service) GetAllProducts(ctx context.Context, limit int, pageToken string) (ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	page, err := s.catalog.FetchPage(ctx, limit, pageToken)
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{
		Products:   page.Products,
		Limit:      limit,
		NextCursor: page.NextToken,
		PrevCursor: page.PrevToken,
	}
	if page.Total != catalog.TotalUnknown {
		result.Total = page.Total
	}
	return result, nil
}

// GetProductByID returns the product with the given id, augmented with
// derived pricing, stock state, and up to three similar products.
func (s *Service) GetProductByID(ctx context.Context, id int64) (ProductDetail, error) {
	p, err := s.catalog.FetchByID(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}

	detail := ProductDetail{
		Product:        *p,
		EffectivePrice: p.EffectivePrice(),
		Savings:        p.Savings(),
		InStock:        p.InStock(),
	}

	// Recommendations are best-effort; a degraded catalog walk must not hide
	// the product itself.
	if recs, err := s.similarTo(ctx, p, 3); err == nil {
		detail.Recommendations = recs
	} else {
		s.logger.WarnContext(ctx, "product detail recommendations unavailable",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.events.ProductViewed(ctx, id)
	return detail, nil
}

// SearchProducts performs a free-text match bounded by limit. Results
// preserve catalog iteration order, not relevance order.
func (s *Service) SearchProducts(ctx context.Context, query string, limit int) (SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query = strings.TrimSpace(query)
	result := SearchResult{Query: query, Products: []domain.Product{}}
	if query == "" {
		return result, nil
	}

	matches, err := s.catalog.FetchRawTextMatch(ctx, query, limit)
	if err != nil {
		return SearchResult{}, err
	}

	result.Products = matches
	result.Count = len(matches)
	s.events.SearchPerformed(ctx, query, result.Count)
	return result, nil
}

// FilterProducts applies the predicate filter to the full candidate set, then
// slices by the criteria's offset and limit. An unsatisfiable price range
// yields an empty result, not an error.
func (s *Service) FilterProducts(ctx context.Context, c domain.Criteria) (FilterResult, error) {
	if c.Limit <= 0 {
		c.Limit = DefaultFilterLimit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}

	result := FilterResult{
		Products: []domain.Product{},
		Limit:    c.Limit,
		Offset:   c.Offset,
		Filters:  c,
	}
	if !c.Satisfiable() {
		return result, nil
	}

	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return FilterResult{}, err
	}

	matched := make([]domain.Product, 0)
	for i := range candidates {
		if Matches(&candidates[i], c) {
			matched = append(matched, candidates[i])
		}
	}

	result.TotalMatched = len(matched)
	result.Products = pagination.Slice(matched, pagination.Window{Limit: c.Limit, Offset: c.Offset})
	return result, nil
}

// GetRecommendations ranks candidates by similarity to a reference product
// when referenceID resolves, by preference scoring when a profile is given,
// and by rating otherwise. A reference id that resolves to nothing falls back
// to the default ranking instead of failing.
func (s *Service) GetRecommendations(ctx context.Context, referenceID *int64, prefs *domain.PreferenceProfile, limit int) (RecommendationResult, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	if referenceID != nil {
		ref, err := s.catalog.FetchByID(ctx, *referenceID)
		switch {
		case err == nil:
			recs, err := s.similarTo(ctx, ref, limit)
			if err != nil {
				return RecommendationResult{}, err
			}
			return s.served(ctx, BasisReference, recs), nil
		case errors.Is(err, apperrors.ErrNotFound):
			// fall through to the default ranking
		default:
			return RecommendationResult{}, err
		}
	}

	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return RecommendationResult{}, err
	}

	if prefs != nil && !prefs.IsZero() {
		ranked := rankByScore(candidates, func(p *domain.Product) int {
			return PreferenceScore(p, *prefs)
		})
		return s.served(ctx, BasisPreferences, top(ranked, limit)), nil
	}

	return s.served(ctx, BasisTopRated, top(rankByRating(candidates), limit)), nil
}

// GetTrendingProducts returns the top products by popularity, falling back to
// rating for sources without a popularity signal.
func (s *Service) GetTrendingProducts(ctx context.Context, limit int) (RankedResult, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return RankedResult{}, err
	}

	products := top(rankByPopularity(candidates), limit)
	return RankedResult{Count: len(products), Products: products}, nil
}

// GetDealsOfTheDay returns the most discounted products. Products without any
// discount never appear.
func (s *Service) GetDealsOfTheDay(ctx context.Context, limit int) (RankedResult, error) {
	if limit <= 0 {
		limit = DefaultDealsLimit
	}

	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return RankedResult{}, err
	}

	products := top(rankByDiscount(candidates), limit)
	return RankedResult{Count: len(products), Products: products}, nil
}

// GetCategories returns the source's category taxonomy verbatim when it
// carries one, otherwise a taxonomy derived from product records.
func (s *Service) GetCategories(ctx context.Context) ([]domain.Category, error) {
	if s.taxonomy != nil {
		return s.taxonomy.Categories(ctx)
	}

	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return deriveCategories(candidates), nil
}

// GetBrands returns the source's brands, optionally narrowed to those tagged
// with the given category.
func (s *Service) GetBrands(ctx context.Context, category string) ([]domain.Brand, error) {
	var brands []domain.Brand
	if s.taxonomy != nil {
		var err error
		brands, err = s.taxonomy.Brands(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		candidates, err := s.fetchAll(ctx)
		if err != nil {
			return nil, err
		}
		brands = deriveBrands(candidates)
	}

	if category == "" {
		return brands, nil
	}

	filtered := make([]domain.Brand, 0, len(brands))
	for _, b := range brands {
		if containsFold(b.Categories, category) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// similarTo ranks the catalog by similarity to ref, excluding ref itself and
// zero-scoring candidates.
func (s *Service) similarTo(ctx context.Context, ref *domain.Product, limit int) ([]domain.Product, error) {
	candidates, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankByScore(candidates, func(p *domain.Product) int {
		if p.ID == ref.ID {
			return 0
		}
		return SimilarityScore(p, ref)
	})
	return top(ranked, limit), nil
}

func (s *Service) served(ctx context.Context, basis string, products []domain.Product) RecommendationResult {
	s.events.RecommendationsServed(ctx, basis, len(products))
	return RecommendationResult{Basis: basis, Count: len(products), Products: products}
}

// fetchAll walks the source page by page into a full candidate set. The walk
// is bounded so a misbehaving cursor source cannot loop forever.
func (s *Service) fetchAll(ctx context.Context) ([]domain.Product, error) {
	var all []domain.Product
	token := ""

	for pages := 0; pages < maxCandidatePages; pages++ {
		page, err := s.catalog.FetchPage(ctx, MaxListLimit, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)

		if page.NextToken == "" {
			return all, nil
		}
		token = page.NextToken
	}

	s.logger.WarnContext(ctx, "candidate walk truncated",
		slog.Int("pages", maxCandidatePages),
		slog.Int("products", len(all)),
	)
	return all, nil
}

// deriveCategories builds a category taxonomy from product records, sorted
// alphabetically.
func deriveCategories(products []domain.Product) []domain.Category {
	subs := map[string]map[string]struct{}{}
	names := map[string]string{}

	for i := range products {
		cat := products[i].Category
		if cat == "" {
			continue
		}
		key := strings.ToLower(cat)
		if _, ok := names[key]; !ok {
			names[key] = cat
			subs[key] = map[string]struct{}{}
		}
		if sub := products[i].Subcategory; sub != "" {
			subs[key][sub] = struct{}{}
		}
	}

	out := make([]domain.Category, 0, len(names))
	for key, name := range names {
		c := domain.Category{Name: name}
		for sub := range subs[key] {
			c.Subcategories = append(c.Subcategories, sub)
		}
		sort.Strings(c.Subcategories)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// deriveBrands builds a brand list from product records, each tagged with the
// categories it appears in, sorted alphabetically.
func deriveBrands(products []domain.Product) []domain.Brand {
	cats := map[string]map[string]struct{}{}
	names := map[string]string{}

	for i := range products {
		brand := products[i].Brand
		if brand == "" {
			continue
		}
		key := strings.ToLower(brand)
		if _, ok := names[key]; !ok {
			names[key] = brand
			cats[key] = map[string]struct{}{}
		}
		if cat := products[i].Category; cat != "" {
			cats[key][cat] = struct{}{}
		}
	}

	out := make([]domain.Brand, 0, len(names))
	for key, name := range names {
		b := domain.Brand{Name: name}
		for cat := range cats[key] {
			b.Categories = append(b.Categories, cat)
		}
		sort.Strings(b.Categories)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
