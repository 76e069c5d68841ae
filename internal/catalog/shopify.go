package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"
	"github.com/ketanjain7981/shop-savy/pkg/httpclient"

	"github.com/ketanjain7981/shop-savy/internal/domain"
)

// shopifyMaxPageSize is the Shopify Admin API page-size cap.
const shopifyMaxPageSize = 250

// ShopifyConfig holds the remote catalog connection settings. It is built
// once at startup and read-only thereafter.
type ShopifyConfig struct {
	StoreDomain string // e.g. "my-store.myshopify.com"
	AccessToken string
	APIVersion  string // e.g. "2025-01"
}

// ShopifyClient is a catalog accessor backed by the Shopify Admin REST API.
type ShopifyClient struct {
	baseURL string
	token   string
	http    *httpclient.Client
	logger  *slog.Logger
}

// NewShopifyClient creates a Shopify-backed catalog accessor.
func NewShopifyClient(cfg ShopifyConfig, client *httpclient.Client, logger *slog.Logger) *ShopifyClient {
	return &ShopifyClient{
		baseURL: fmt.Sprintf("https://%s/admin/api/%s", cfg.StoreDomain, cfg.APIVersion),
		token:   cfg.AccessToken,
		http:    client,
		logger:  logger,
	}
}

// NewShopifyClientWithBaseURL is like NewShopifyClient but against an explicit
// base URL. Used by tests to point at a local server.
func NewShopifyClientWithBaseURL(baseURL, token string, client *httpclient.Client, logger *slog.Logger) *ShopifyClient {
	return &ShopifyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    client,
		logger:  logger,
	}
}

// --- Wire types ---
// Shopify serializes prices as strings; these mirror the wire shape before
// conversion into domain values.

type shopifyVariant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	Position          int    `json:"position"`
	Option1           string `json:"option1"`
	Option2           string `json:"option2"`
	Option3           string `json:"option3"`
	SKU               string `json:"sku"`
	Grams             int    `json:"grams"`
	RequiresShipping  bool   `json:"requires_shipping"`
	Taxable           bool   `json:"taxable"`
}

type shopifyOption struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

type shopifyImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Src       string `json:"src"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type shopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        string           `json:"tags"`
	Status      string           `json:"status"`
	Variants    []shopifyVariant `json:"variants"`
	Options     []shopifyOption  `json:"options"`
	Image       *shopifyImage    `json:"image"`
}

func (sp shopifyProduct) toDomain() domain.Product {
	p := domain.Product{
		ID:          sp.ID,
		Title:       sp.Title,
		Description: sp.BodyHTML,
		Category:    sp.ProductType,
		Brand:       sp.Vendor,
		Tags:        splitTags(sp.Tags),
	}

	for _, v := range sp.Variants {
		p.Variants = append(p.Variants, domain.Variant{
			ID:                v.ID,
			ProductID:         v.ProductID,
			Title:             v.Title,
			Price:             parsePrice(v.Price),
			CompareAtPrice:    parsePrice(v.CompareAtPrice),
			InventoryQuantity: v.InventoryQuantity,
			Position:          v.Position,
			Option1:           v.Option1,
			Option2:           v.Option2,
			Option3:           v.Option3,
			SKU:               v.SKU,
			Grams:             v.Grams,
			RequiresShipping:  v.RequiresShipping,
			Taxable:           v.Taxable,
		})
	}
	for _, o := range sp.Options {
		p.Options = append(p.Options, domain.Option{
			ID:        o.ID,
			ProductID: o.ProductID,
			Name:      o.Name,
			Position:  o.Position,
			Values:    o.Values,
		})
	}
	if sp.Image != nil {
		p.Image = &domain.Image{
			ID:        sp.Image.ID,
			ProductID: sp.Image.ProductID,
			Src:       sp.Image.Src,
			Width:     sp.Image.Width,
			Height:    sp.Image.Height,
		}
	}
	return p
}

// splitTags turns Shopify's comma-separated tag string into a slice.
func splitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// --- Accessor implementation ---

// FetchPage fetches one page of products. The page token is Shopify's opaque
// page_info cursor, passed through verbatim. Limits above 250 silently clamp.
func (c *ShopifyClient) FetchPage(ctx context.Context, limit int, pageToken string) (Page, error) {
	if limit <= 0 || limit > shopifyMaxPageSize {
		limit = shopifyMaxPageSize
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if pageToken != "" {
		params.Set("page_info", pageToken)
	}

	resp, err := c.get(ctx, "/products.json?"+params.Encode())
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, c.sourceError(resp)
	}

	var body struct {
		Products []shopifyProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, apperrors.SourceUnavailable(resp.StatusCode, "malformed products response: "+err.Error())
	}

	page := Page{Total: TotalUnknown, Products: make([]domain.Product, 0, len(body.Products))}
	for _, sp := range body.Products {
		page.Products = append(page.Products, sp.toDomain())
	}
	page.NextToken, page.PrevToken = parseLinkHeader(resp.Header.Get("Link"))
	return page, nil
}

// FetchByID fetches a single product.
func (c *ShopifyClient) FetchByID(ctx context.Context, id int64) (*domain.Product, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/products/%d.json", id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.sourceError(resp)
	}

	var body struct {
		Product shopifyProduct `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.SourceUnavailable(resp.StatusCode, "malformed product response: "+err.Error())
	}

	p := body.Product.toDomain()
	return &p, nil
}

// FetchRawTextMatch delegates title matching to Shopify's server-side title
// filter.
func (c *ShopifyClient) FetchRawTextMatch(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > shopifyMaxPageSize {
		limit = shopifyMaxPageSize
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(limit))

	resp, err := c.get(ctx, "/products.json?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.sourceError(resp)
	}

	var body struct {
		Products []shopifyProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.SourceUnavailable(resp.StatusCode, "malformed products response: "+err.Error())
	}

	products := make([]domain.Product, 0, len(body.Products))
	for _, sp := range body.Products {
		products = append(products, sp.toDomain())
	}
	return products, nil
}

func (c *ShopifyClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "build catalog request")
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.SourceUnavailable(0, err.Error())
	}
	return resp, nil
}

// sourceError drains the response body into a SOURCE_UNAVAILABLE error,
// preserving the upstream status and message.
func (c *ShopifyClient) sourceError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	c.logger.Warn("catalog source error",
		slog.Int("status", resp.StatusCode),
		slog.String("message", msg),
	)
	return apperrors.SourceUnavailable(resp.StatusCode, msg)
}

// parseLinkHeader extracts the next and previous page_info cursors from a
// Shopify-style Link header:
//
//	<https://x/products.json?page_info=abc>; rel="next", <...>; rel="previous"
//
// Parsed by hand; the header grammar here is small enough not to warrant a
// dependency.
func parseLinkHeader(header string) (next, prev string) {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}

		rawURL := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		cursor := pageInfoParam(rawURL)
		if cursor == "" {
			continue
		}

		for _, seg := range segments[1:] {
			switch strings.TrimSpace(seg) {
			case `rel="next"`:
				next = cursor
			case `rel="previous"`:
				prev = cursor
			}
		}
	}
	return next, prev
}

func pageInfoParam(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("page_info")
}
