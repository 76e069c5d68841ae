package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"
	"github.com/ketanjain7981/shop-savy/pkg/httpclient"
)

func newTestShopifyClient(t *testing.T, handler http.HandlerFunc) *ShopifyClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return NewShopifyClientWithBaseURL(srv.URL, "test-token", httpclient.New(cfg), discardLogger())
}

const productsPayload = `{
	"products": [
		{
			"id": 101,
			"title": "Canvas Tote",
			"body_html": "roomy everyday tote",
			"vendor": "Harbor",
			"product_type": "Bags",
			"tags": "canvas, everyday , tote",
			"variants": [
				{"id": 1, "product_id": 101, "price": "34.99", "compare_at_price": "44.99", "inventory_quantity": 12, "option1": "Natural"}
			],
			"options": [{"id": 9, "product_id": 101, "name": "Color", "position": 1, "values": ["Natural", "Black"]}],
			"image": {"id": 5, "product_id": 101, "src": "https://cdn.example/tote.jpg"}
		}
	]
}`

func TestShopifyClient_FetchPage(t *testing.T) {
	var gotToken, gotLimit, gotPageInfo string

	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotLimit = r.URL.Query().Get("limit")
		gotPageInfo = r.URL.Query().Get("page_info")

		w.Header().Set("Link", `<https://shop.example/admin/api/2025-01/products.json?page_info=nexttok&limit=50>; rel="next", <https://shop.example/admin/api/2025-01/products.json?page_info=prevtok&limit=50>; rel="previous"`)
		fmt.Fprint(w, productsPayload)
	})

	page, err := client.FetchPage(context.Background(), 50, "curtok")
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "50", gotLimit)
	assert.Equal(t, "curtok", gotPageInfo)

	assert.Equal(t, TotalUnknown, page.Total)
	assert.Equal(t, "nexttok", page.NextToken)
	assert.Equal(t, "prevtok", page.PrevToken)

	require.Len(t, page.Products, 1)
	p := page.Products[0]
	assert.Equal(t, int64(101), p.ID)
	assert.Equal(t, "Bags", p.Category)
	assert.Equal(t, "Harbor", p.Brand)
	assert.Equal(t, []string{"canvas", "everyday", "tote"}, p.Tags)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 34.99, p.Variants[0].Price)
	assert.Equal(t, 44.99, p.Variants[0].CompareAtPrice)
	require.NotNil(t, p.Image)
	assert.Equal(t, "https://cdn.example/tote.jpg", p.Image.Src)
}

func TestShopifyClient_FetchPage_ClampsLimit(t *testing.T) {
	var gotLimit string
	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		fmt.Fprint(w, `{"products": []}`)
	})

	page, err := client.FetchPage(context.Background(), 9999, "")
	require.NoError(t, err)
	assert.Equal(t, "250", gotLimit)
	assert.Empty(t, page.Products)
	assert.Empty(t, page.NextToken)
}

func TestShopifyClient_FetchPage_UpstreamError(t *testing.T) {
	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.FetchPage(context.Background(), 10, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SOURCE_UNAVAILABLE", appErr.Code)
	assert.Contains(t, appErr.Message, "429")
	assert.Contains(t, appErr.Message, "rate limited")
}

func TestShopifyClient_FetchByID(t *testing.T) {
	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/101.json", r.URL.Path)
		fmt.Fprint(w, `{"product": {"id": 101, "title": "Canvas Tote", "vendor": "Harbor", "product_type": "Bags", "tags": ""}}`)
	})

	p, err := client.FetchByID(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "Canvas Tote", p.Title)
	assert.Empty(t, p.Tags)
}

func TestShopifyClient_FetchByID_NotFound(t *testing.T) {
	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
	})

	_, err := client.FetchByID(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestShopifyClient_FetchRawTextMatch(t *testing.T) {
	var gotTitle string
	client := newTestShopifyClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.URL.Query().Get("title")
		fmt.Fprint(w, productsPayload)
	})

	products, err := client.FetchRawTextMatch(context.Background(), "tote", 10)
	require.NoError(t, err)
	assert.Equal(t, "tote", gotTitle)
	require.Len(t, products, 1)
	assert.Equal(t, int64(101), products[0].ID)
}

func TestParseLinkHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		next   string
		prev   string
	}{
		{
			name:   "next only",
			header: `<https://shop.example/products.json?page_info=abc&limit=50>; rel="next"`,
			next:   "abc",
		},
		{
			name:   "previous only",
			header: `<https://shop.example/products.json?page_info=xyz>; rel="previous"`,
			prev:   "xyz",
		},
		{
			name:   "both directions",
			header: `<https://s/p.json?page_info=p1>; rel="previous", <https://s/p.json?page_info=n1>; rel="next"`,
			next:   "n1",
			prev:   "p1",
		},
		{
			name:   "empty header",
			header: "",
		},
		{
			name:   "no page_info param",
			header: `<https://shop.example/products.json?limit=50>; rel="next"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, prev := parseLinkHeader(tt.header)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.prev, prev)
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, splitTags(""))
	assert.Nil(t, splitTags("   "))
	assert.Equal(t, []string{"a", "b c", "d"}, splitTags("a, b c ,d,"))
}
