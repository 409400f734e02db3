// internal/application/query/mall/dto/catalog_dto.go
package dto

import "time"

// ============================================================
// Listing
// ============================================================

type CatalogDTO struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
	Facets   FacetsDTO    `json:"facets"`
	Criteria CriteriaDTO  `json:"criteria"`

	// Degraded is set when a catalog read failed and the listing was
	// served partially or empty.
	Degraded bool `json:"degraded,omitempty"`
}

type ProductDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Brand       RefDTO    `json:"brand"`
	Color       string    `json:"color,omitempty"`
	CategoryIDs []string  `json:"categoryIds"`
	Image       string    `json:"image,omitempty"` // URL
	Storage     string    `json:"storage,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	InStock     bool      `json:"inStock"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type FacetDTO struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

type FacetsDTO struct {
	Brands     []FacetDTO `json:"brands"`
	Colors     []FacetDTO `json:"colors"`
	Categories []FacetDTO `json:"categories"`
	MinPrice   float64    `json:"minPrice"`
	MaxPrice   float64    `json:"maxPrice"`
	InStock    int        `json:"inStock"`
	OutOfStock int        `json:"outOfStock"`
}

// CriteriaDTO echoes the applied criteria. MaxPrice is omitted when
// unbounded.
type CriteriaDTO struct {
	Search      string   `json:"q,omitempty"`
	MinPrice    float64  `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	CategoryIDs []string `json:"categories"`
	BrandIDs    []string `json:"brands"`
	Colors      []string `json:"colors"`
	Query       string   `json:"query"`
}

// ============================================================
// Taxonomy
// ============================================================

type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type BrandDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
}
