// internal/domain/product/entity.go
package product

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Condition is the resale grade of a used handset.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

// Product is a catalog entry. The storefront only ever reads it;
// the console owns writes.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	BrandID     string    `json:"brand"`
	Color       string    `json:"color"`
	CategoryIDs []string  `json:"categoryIds"`
	ImageRef    string    `json:"image"`
	Storage     string    `json:"storage,omitempty"`
	Condition   Condition `json:"condition"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductPatch is a partial update. nil means "no change".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	BrandID     *string
	Color       *string
	CategoryIDs *[]string
	ImageRef    *string
	Storage     *string
	Condition   *Condition
	Stock       *int
	Active      *bool
}

var (
	ErrInvalidID        = errors.New("product: invalid id")
	ErrInvalidName      = errors.New("product: invalid name")
	ErrInvalidPrice     = errors.New("product: invalid price")
	ErrInvalidStock     = errors.New("product: invalid stock")
	ErrInvalidCondition = errors.New("product: invalid condition")
)

// New normalizes and validates a product record.
func New(
	id, name string,
	price float64,
	brandID, color string,
	categoryIDs []string,
	imageRef string,
	now time.Time,
) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Price:       price,
		BrandID:     strings.TrimSpace(brandID),
		Color:       strings.TrimSpace(color),
		CategoryIDs: NormalizeIDs(categoryIDs),
		ImageRef:    strings.TrimSpace(imageRef),
		Condition:   ConditionGood,
		Active:      true,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate checks the fields every reader relies on.
// ID may be empty only before the repository assigns one.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	if p.Condition != "" && !p.Condition.Valid() {
		return ErrInvalidCondition
	}
	return nil
}

// HasAnyCategory reports whether p belongs to any of ids.
func (p Product) HasAnyCategory(ids map[string]struct{}) bool {
	for _, c := range p.CategoryIDs {
		if _, ok := ids[c]; ok {
			return true
		}
	}
	return false
}

// Apply merges patch into p and bumps UpdatedAt.
func (p *Product) Apply(patch ProductPatch, now time.Time) error {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.BrandID != nil {
		p.BrandID = strings.TrimSpace(*patch.BrandID)
	}
	if patch.Color != nil {
		p.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.CategoryIDs != nil {
		p.CategoryIDs = NormalizeIDs(*patch.CategoryIDs)
	}
	if patch.ImageRef != nil {
		p.ImageRef = strings.TrimSpace(*patch.ImageRef)
	}
	if patch.Storage != nil {
		p.Storage = strings.TrimSpace(*patch.Storage)
	}
	if patch.Condition != nil {
		p.Condition = *patch.Condition
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	p.UpdatedAt = now.UTC()
	return p.Validate()
}

// NormalizeIDs trims, drops empties and dedups while keeping first-seen order.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// MatchesSearch is the case-insensitive substring match on Name used by
// catalog readers. An empty query matches everything.
func (p Product) MatchesSearch(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(q))
}
