package filter

import (
	"sort"

	"phonemall/internal/domain/product"
)

type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Availability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// FacetSet is the sidebar metadata for a listing.
type FacetSet struct {
	Brands       []Facet      `json:"brands"`
	Colors       []Facet      `json:"colors"`
	Categories   []Facet      `json:"categories"`
	PriceRange   PriceRange   `json:"priceRange"`
	Availability Availability `json:"availability"`
}

// Facets summarizes products. Callers pass the search-narrowed set so the
// sidebar still offers options the current selection excludes.
func Facets(products []product.Product) FacetSet {
	brands := map[string]int{}
	colors := map[string]int{}
	cats := map[string]int{}
	var fs FacetSet

	for i, p := range products {
		if p.BrandID != "" {
			brands[p.BrandID]++
		}
		if c := foldColor(p.Color); c != "" {
			colors[c]++
		}
		for _, id := range p.CategoryIDs {
			cats[id]++
		}
		if i == 0 || p.Price < fs.PriceRange.Min {
			fs.PriceRange.Min = p.Price
		}
		if p.Price > fs.PriceRange.Max {
			fs.PriceRange.Max = p.Price
		}
		if p.Stock > 0 {
			fs.Availability.InStock++
		} else {
			fs.Availability.OutOfStock++
		}
	}

	fs.Brands = toFacets(brands)
	fs.Colors = toFacets(colors)
	fs.Categories = toFacets(cats)
	return fs
}

// toFacets orders by count desc, then value.
func toFacets(m map[string]int) []Facet {
	out := make([]Facet, 0, len(m))
	for v, n := range m {
		out = append(out, Facet{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
