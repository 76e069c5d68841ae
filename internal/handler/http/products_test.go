package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ketanjain7981/shop-savy/pkg/health"

	"github.com/ketanjain7981/shop-savy/internal/catalog"
	"github.com/ketanjain7981/shop-savy/internal/domain"
	"github.com/ketanjain7981/shop-savy/internal/engine"
	"github.com/ketanjain7981/shop-savy/internal/tools"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	snap := catalog.NewSnapshotFromData(catalog.SnapshotData{
		Products: []domain.Product{
			{ID: 1, Title: "Alpha", Category: "A", Tags: []string{"x", "y"}, Rating: 4.5, Price: 100, DiscountPercentage: 10, StockQuantity: 5},
			{ID: 2, Title: "Beta", Category: "A", Tags: []string{"x"}, Rating: 3.0, Price: 50, DiscountPercentage: 50, StockQuantity: 2},
			{ID: 3, Title: "Gamma", Category: "B", Rating: 5.0, Price: 200, StockQuantity: 1},
		},
		Categories: []domain.Category{{Name: "A"}, {Name: "B"}},
		Brands:     []domain.Brand{{Name: "Acme", Categories: []string{"A"}}},
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
	svc := engine.NewService(snap, snap, nil, logger)
	registry := tools.NewRegistry(svc, logger)

	return NewRouter(svc, registry, health.NewHandler(), logger)
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope has no data object: %v", envelope)
	return data
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Len(t, data["products"], 2)
	assert.Equal(t, float64(3), data["total"])
	assert.NotEmpty(t, data["next_cursor"])
}

func TestListProducts_InvalidLimit(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotNil(t, envelope["error"])
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	product := data["product"].(map[string]any)
	assert.Equal(t, "Alpha", product["title"])
	assert.Equal(t, float64(90), data["effective_price"])
	assert.Equal(t, true, data["in_stock"])
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	errObj := envelope["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestGetProduct_NonNumericID(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProducts(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/search?q=alpha", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, "alpha", data["query"])
	assert.Equal(t, float64(1), data["count"])
}

func TestSearchProducts_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/products/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterProducts(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/filter?min_rating=4&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, float64(2), data["total_matched"])
	assert.Len(t, data["products"], 2)
}

func TestFilterProducts_InvalidBound(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/products/filter?min_price=cheap", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterProducts_InvertedRangeIsEmptyOK(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/filter?min_price=500&max_price=100", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, float64(0), data["total_matched"])
}

func TestGetRecommendations_ByReference(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/recommendations?product_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, engine.BasisReference, data["basis"])
	assert.Equal(t, float64(1), data["count"])
}

func TestGetRecommendations_ByPreferences(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/recommendations?categories=B", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, engine.BasisPreferences, data["basis"])
}

func TestGetTrending_SetsCacheControl(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/trending?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=60")

	data := dataOf(t, envelope)
	assert.Equal(t, float64(2), data["count"])
}

func TestGetDeals(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/products/deals?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	first := products[0].(map[string]any)
	assert.Equal(t, float64(2), first["id"])
}

func TestListCategories(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Len(t, data["categories"], 2)
}

func TestListBrands_WithCategoryFilter(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/brands?category=A", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Len(t, data["brands"], 1)
	assert.Equal(t, "A", data["category"])
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	live, _ := doRequest(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, live.Code)

	ready, _ := doRequest(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, ready.Code)
}

func TestInvokeTool(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/tools/search_products", `{"query":"alpha"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, float64(1), data["count"])
}

func TestInvokeTool_NotFoundProductIsData(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/tools/get_product_by_id", `{"product_id":999}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Equal(t, float64(999), data["product_id"])
	assert.NotEmpty(t, data["error"])
}

func TestInvokeTool_UnknownTool(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/tools/summon_products", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotNil(t, envelope["error"])
}

func TestListTools(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	assert.Len(t, data["tools"], 10)
}
