package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ketanjain7981/shop-savy/pkg/httputil"
	"github.com/ketanjain7981/shop-savy/pkg/pagination"

	"github.com/ketanjain7981/shop-savy/internal/domain"
	"github.com/ketanjain7981/shop-savy/internal/engine"
)

// ProductHandler handles HTTP requests for the product query endpoints.
type ProductHandler struct {
	engine *engine.Service
	logger *slog.Logger
}

// NewProductHandler creates a new product query HTTP handler.
func NewProductHandler(svc *engine.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		engine: svc,
		logger: logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := engine.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a valid positive integer"},
			})
			return
		}
		limit = n
	}

	result, err := h.engine.GetAllProducts(r.Context(), limit, r.URL.Query().Get("page_token"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "product id must be an integer"},
		})
		return
	}

	detail, err := h.engine.GetProductByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// SearchProducts handles GET /api/v1/products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "q is required"},
		})
		return
	}

	window := pagination.FromRequest(r, engine.DefaultSearchLimit, engine.MaxListLimit)

	result, err := h.engine.SearchProducts(r.Context(), query, window.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// FilterProducts handles GET /api/v1/products/filter
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window := pagination.FromRequest(r, engine.DefaultFilterLimit, engine.MaxListLimit)

	criteria := domain.Criteria{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Brand:       q.Get("brand"),
		Colors:      csv(q.Get("colors")),
		Tags:        csv(q.Get("tags")),
		InStock:     q.Get("in_stock") == "true",
		Limit:       window.Limit,
		Offset:      window.Offset,
	}

	for _, bound := range []struct {
		param string
		dst   **float64
	}{
		{"min_price", &criteria.MinPrice},
		{"max_price", &criteria.MaxPrice},
		{"min_rating", &criteria.MinRating},
	} {
		if v := q.Get(bound.param); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: bound.param + " must be a valid non-negative number"},
				})
				return
			}
			*bound.dst = &f
		}
	}

	result, err := h.engine.FilterProducts(r.Context(), criteria)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetRecommendations handles GET /api/v1/products/recommendations
func (h *ProductHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window := pagination.FromRequest(r, engine.DefaultRecommendLimit, engine.MaxListLimit)

	var referenceID *int64
	if v := q.Get("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "product_id must be an integer"},
			})
			return
		}
		referenceID = &id
	}

	var prefs *domain.PreferenceProfile
	profile := domain.PreferenceProfile{
		Categories: csv(q.Get("categories")),
		Brands:     csv(q.Get("brands")),
		Tags:       csv(q.Get("tags")),
	}
	if !profile.IsZero() {
		prefs = &profile
	}

	result, err := h.engine.GetRecommendations(r.Context(), referenceID, prefs, window.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetTrending handles GET /api/v1/products/trending
func (h *ProductHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	window := pagination.FromRequest(r, engine.DefaultTrendingLimit, engine.MaxListLimit)

	result, err := h.engine.GetTrendingProducts(r.Context(), window.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetDeals handles GET /api/v1/products/deals
func (h *ProductHandler) GetDeals(w http.ResponseWriter, r *http.Request) {
	window := pagination.FromRequest(r, engine.DefaultDealsLimit, engine.MaxListLimit)

	result, err := h.engine.GetDealsOfTheDay(r.Context(), window.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.engine.GetCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"categories": categories}})
}

// ListBrands handles GET /api/v1/brands
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	brands, err := h.engine.GetBrands(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	data := map[string]any{"brands": brands}
	if category != "" {
		data["category"] = category
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: data})
}

// csv splits a comma-separated query value into trimmed parts.
func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
