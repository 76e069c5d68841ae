package domain

// Criteria is a request-scoped bag of optional filter constraints. Absence of
// a field means "do not constrain on this dimension".
type Criteria struct {
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	InStock     bool     `json:"in_stock,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

// IsZero reports whether no filter dimension is constrained.
func (c Criteria) IsZero() bool {
	return c.Category == "" && c.Subcategory == "" && c.Brand == "" &&
		c.MinPrice == nil && c.MaxPrice == nil && c.MinRating == nil &&
		len(c.Colors) == 0 && len(c.Tags) == 0 && !c.InStock
}

// Satisfiable reports whether any product could match the criteria. An
// inverted price range (min above max) can match nothing; callers treat it as
// an empty result rather than an error, so a conversational caller never
// crashes on it.
func (c Criteria) Satisfiable() bool {
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return false
	}
	return true
}

// PreferenceProfile holds a user's stated shopping preferences, used only for
// preference-based recommendation scoring.
type PreferenceProfile struct {
	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// IsZero reports whether the profile expresses no preference at all.
func (p PreferenceProfile) IsZero() bool {
	return len(p.Categories) == 0 && len(p.Brands) == 0 && len(p.Tags) == 0
}
