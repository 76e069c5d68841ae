package domain

import "strings"

// Product is the catalog's unit of sale. Instances are immutable snapshots of
// local or remote state at fetch time; the query engine only reads them.
type Product struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	Subcategory        string    `json:"subcategory,omitempty"`
	Brand              string    `json:"brand,omitempty"`
	Price              float64   `json:"price"`
	DiscountPercentage float64   `json:"discount_percentage,omitempty"`
	Rating             float64   `json:"rating,omitempty"`
	Popularity         float64   `json:"popularity,omitempty"`
	StockQuantity      int       `json:"stock_quantity"`
	Colors             []string  `json:"colors,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	Variants           []Variant `json:"variants,omitempty"`
	Options            []Option  `json:"options,omitempty"`
	Image              *Image    `json:"image,omitempty"`
}

// Variant is a purchasable configuration of a product (size, color, etc.).
type Variant struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"product_id"`
	Title             string  `json:"title"`
	Price             float64 `json:"price"`
	CompareAtPrice    float64 `json:"compare_at_price,omitempty"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Position          int     `json:"position,omitempty"`
	Option1           string  `json:"option1,omitempty"`
	Option2           string  `json:"option2,omitempty"`
	Option3           string  `json:"option3,omitempty"`
	SKU               string  `json:"sku,omitempty"`
	Grams             int     `json:"grams,omitempty"`
	RequiresShipping  bool    `json:"requires_shipping,omitempty"`
	Taxable           bool    `json:"taxable,omitempty"`
}

// Option is a named axis of variation belonging to a product.
type Option struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

// Image is a product's primary image reference.
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Src       string `json:"src"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Category is one node of the catalog's category taxonomy.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// Brand is a vendor in the catalog, tagged with the categories it sells in.
type Brand struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories,omitempty"`
}

// PrimaryPrice returns the product's price for filtering and display: the
// lowest variant price when variants exist, otherwise the flat price field.
func (p *Product) PrimaryPrice() float64 {
	if len(p.Variants) == 0 {
		return p.Price
	}
	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// EffectivePrice returns the price after applying the discount percentage.
// Never negative.
func (p *Product) EffectivePrice() float64 {
	price := p.PrimaryPrice() * (1 - p.DiscountPercentage/100)
	if price < 0 {
		return 0
	}
	return price
}

// Savings returns the absolute amount saved at the effective price.
func (p *Product) Savings() float64 {
	return p.PrimaryPrice() - p.EffectivePrice()
}

// TotalInventory returns the total stock across the product: the sum of
// variant inventory when variants exist, otherwise the flat stock quantity.
func (p *Product) TotalInventory() int {
	if len(p.Variants) == 0 {
		return p.StockQuantity
	}
	total := 0
	for _, v := range p.Variants {
		total += v.InventoryQuantity
	}
	return total
}

// InStock reports whether the product has strictly positive total stock.
func (p *Product) InStock() bool {
	return p.TotalInventory() > 0
}

// MatchesQuery reports whether the lowercased query is a substring of the
// product's title or description, or of any tag. Used for free-text search.
func (p *Product) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// DiscountValue returns the magnitude used to rank deals: the flat discount
// percentage when set, otherwise the first variant's compare-at-price minus
// its price.
func (p *Product) DiscountValue() float64 {
	if p.DiscountPercentage > 0 {
		return p.DiscountPercentage
	}
	if len(p.Variants) > 0 && p.Variants[0].CompareAtPrice > 0 {
		return p.Variants[0].CompareAtPrice - p.Variants[0].Price
	}
	return 0
}
