// Package tools exposes the query engine as a set of named operations with
// flat JSON argument bags, the boundary a dialogue or tool-invocation layer
// calls across. Every operation returns a JSON-serializable result; a missing
// product comes back as data, not as an error, so a conversational caller can
// react in-dialogue instead of crashing.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	apperrors "github.com/ketanjain7981/shop-savy/pkg/errors"
	"github.com/ketanjain7981/shop-savy/pkg/validator"

	"github.com/ketanjain7981/shop-savy/internal/domain"
	"github.com/ketanjain7981/shop-savy/internal/engine"
)

// Tool operation names.
const (
	ToolGetAllProducts   = "get_all_products"
	ToolGetProductByID   = "get_product_by_id"
	ToolSearchProducts   = "search_products"
	ToolFilterProducts   = "filter_products"
	ToolRecommendations  = "get_product_recommendations"
	ToolTrendingProducts = "get_trending_products"
	ToolDealsOfTheDay    = "get_deals_of_the_day"
	ToolGetCategories    = "get_categories"
	ToolGetBrands        = "get_brands"
	ToolDisplayProducts  = "display_products_to_user"
)

// Definition describes one callable tool for the dialogue layer.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps tool names to their handlers.
type Registry struct {
	engine   *engine.Service
	logger   *slog.Logger
	handlers map[string]handler
	defs     []Definition
}

// NewRegistry builds the tool registry over the query service.
func NewRegistry(svc *engine.Service, logger *slog.Logger) *Registry {
	r := &Registry{
		engine: svc,
		logger: logger,
	}

	r.handlers = map[string]handler{
		ToolGetAllProducts:   r.getAllProducts,
		ToolGetProductByID:   r.getProductByID,
		ToolSearchProducts:   r.searchProducts,
		ToolFilterProducts:   r.filterProducts,
		ToolRecommendations:  r.getRecommendations,
		ToolTrendingProducts: r.getTrending,
		ToolDealsOfTheDay:    r.getDeals,
		ToolGetCategories:    r.getCategories,
		ToolGetBrands:        r.getBrands,
		ToolDisplayProducts:  r.displayProducts,
	}

	r.defs = []Definition{
		{ToolGetAllProducts, "Fetch a page of the full product catalog."},
		{ToolGetProductByID, "Fetch one product with pricing, stock, and similar products."},
		{ToolSearchProducts, "Free-text search over product titles, descriptions, and tags."},
		{ToolFilterProducts, "Filter the catalog by category, brand, price, rating, colors, tags, and stock."},
		{ToolRecommendations, "Recommend products similar to a reference product or matching stated preferences."},
		{ToolTrendingProducts, "Fetch the currently trending products."},
		{ToolDealsOfTheDay, "Fetch the most discounted products."},
		{ToolGetCategories, "List the catalog's categories and subcategories."},
		{ToolGetBrands, "List brands, optionally narrowed to one category."},
		{ToolDisplayProducts, "Show a set of products to the user in the conversation UI."},
	}

	return r
}

// Definitions lists every registered tool.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Dispatch invokes the named tool with the given argument bag. Unknown tool
// names and unrecognized argument keys are rejected explicitly.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, apperrors.InvalidInput("unknown tool: " + name)
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	r.logger.DebugContext(ctx, "tool dispatched", slog.String("tool", name))
	return h(ctx, args)
}

// decode unmarshals an argument bag strictly, rejecting unrecognized keys,
// then validates the result.
func (r *Registry) decode(args json.RawMessage, into any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return apperrors.InvalidInput("invalid tool arguments: " + err.Error())
	}
	if err := validator.Validate(into); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

type getAllArgs struct {
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=250"`
	PageToken string `json:"page_token"`
}

func (r *Registry) getAllProducts(ctx context.Context, args json.RawMessage) (any, error) {
	var a getAllArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}
	return r.engine.GetAllProducts(ctx, a.Limit, a.PageToken)
}

type productIDArgs struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// missResult is the structured "not found" payload returned as data.
type missResult struct {
	Error     string `json:"error"`
	ProductID int64  `json:"product_id"`
}

func (r *Registry) getProductByID(ctx context.Context, args json.RawMessage) (any, error) {
	var a productIDArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}

	detail, err := r.engine.GetProductByID(ctx, a.ProductID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return missResult{Error: "product not found", ProductID: a.ProductID}, nil
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

type searchArgs struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=250"`
}

func (r *Registry) searchProducts(ctx context.Context, args json.RawMessage) (any, error) {
	var a searchArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}
	return r.engine.SearchProducts(ctx, a.Query, a.Limit)
}

type filterArgs struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Brand       string   `json:"brand"`
	MinPrice    *float64 `json:"min_price" validate:"omitempty,min=0"`
	MaxPrice    *float64 `json:"max_price" validate:"omitempty,min=0"`
	MinRating   *float64 `json:"min_rating" validate:"omitempty,min=0,max=5"`
	Colors      []string `json:"colors"`
	Tags        []string `json:"tags"`
	InStock     bool     `json:"in_stock"`
	Limit       int      `json:"limit" validate:"omitempty,min=1,max=250"`
	Offset      int      `json:"offset" validate:"omitempty,min=0"`
}

func (r *Registry) filterProducts(ctx context.Context, args json.RawMessage) (any, error) {
	var a filterArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}

	return r.engine.FilterProducts(ctx, domain.Criteria{
		Category:    a.Category,
		Subcategory: a.Subcategory,
		Brand:       a.Brand,
		MinPrice:    a.MinPrice,
		MaxPrice:    a.MaxPrice,
		MinRating:   a.MinRating,
		Colors:      a.Colors,
		Tags:        a.Tags,
		InStock:     a.InStock,
		Limit:       a.Limit,
		Offset:      a.Offset,
	})
}

type recommendArgs struct {
	ProductID       *int64                    `json:"product_id"`
	UserPreferences *domain.PreferenceProfile `json:"user_preferences"`
	Limit           int                       `json:"limit" validate:"omitempty,min=1,max=250"`
}

func (r *Registry) getRecommendations(ctx context.Context, args json.RawMessage) (any, error) {
	var a recommendArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}
	return r.engine.GetRecommendations(ctx, a.ProductID, a.UserPreferences, a.Limit)
}

type limitArgs struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=250"`
}

func (r *Registry) getTrending(ctx context.Context, args json.RawMessage) (any, error) {
	var a limitArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}
	return r.engine.GetTrendingProducts(ctx, a.Limit)
}

func (r *Registry) getDeals(ctx context.Context, args json.RawMessage) (any, error) {
	var a limitArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}
	return r.engine.GetDealsOfTheDay(ctx, a.Limit)
}

type emptyArgs struct{}

func (r *Registry) getCategories(ctx context.Context, args json.RawMessage) (any, error) {
	var a emptyArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}

	categories, err := r.engine.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": categories}, nil
}

type brandsArgs struct {
	Category string `json:"category"`
}

func (r *Registry) getBrands(ctx context.Context, args json.RawMessage) (any, error) {
	var a brandsArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}

	brands, err := r.engine.GetBrands(ctx, a.Category)
	if err != nil {
		return nil, err
	}

	result := map[string]any{"brands": brands}
	if a.Category != "" {
		result["category"] = a.Category
	}
	return result, nil
}

type displayArgs struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1"`
	Title      string  `json:"title"`
}

// displayCard is the compact product rendering handed to the conversation UI.
type displayCard struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	InStock  bool    `json:"in_stock"`
	Discount float64 `json:"discount_percentage,omitempty"`
}

type displayResult struct {
	Title     string        `json:"title,omitempty"`
	Displayed int           `json:"displayed"`
	Skipped   []int64       `json:"skipped,omitempty"`
	Products  []displayCard `json:"products"`
}

func (r *Registry) displayProducts(ctx context.Context, args json.RawMessage) (any, error) {
	var a displayArgs
	if err := r.decode(args, &a); err != nil {
		return nil, err
	}

	result := displayResult{Title: a.Title, Products: []displayCard{}}
	for _, id := range a.ProductIDs {
		detail, err := r.engine.GetProductByID(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return nil, err
		}

		card := displayCard{
			ID:       detail.Product.ID,
			Title:    detail.Product.Title,
			Price:    detail.EffectivePrice,
			InStock:  detail.InStock,
			Discount: detail.Product.DiscountPercentage,
		}
		if detail.Product.Image != nil {
			card.Image = detail.Product.Image.Src
		}
		result.Products = append(result.Products, card)
	}

	result.Displayed = len(result.Products)
	return result, nil
}
