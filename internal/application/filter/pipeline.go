package filter

import (
	"strings"

	"phonemall/internal/domain/product"
)

// Apply returns the products that satisfy every dimension of c, in input
// order. Within a multi-valued dimension any member matches. The input is
// not modified.
func Apply(products []product.Product, c Criteria) []product.Product {
	colors := foldSet(c.Colors)

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if match(p, c, colors) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether a single product satisfies c.
func Match(p product.Product, c Criteria) bool {
	return match(p, c, foldSet(c.Colors))
}

func match(p product.Product, c Criteria, colors Set) bool {
	if p.Price < c.MinPrice || p.Price > c.UpperPrice() {
		return false
	}
	if len(c.CategoryIDs) > 0 && !p.HasAnyCategory(c.CategoryIDs) {
		return false
	}
	if len(c.BrandIDs) > 0 && !c.BrandIDs.Has(p.BrandID) {
		return false
	}
	if len(colors) > 0 && !colors.Has(foldColor(p.Color)) {
		return false
	}
	return true
}

// Colors compare case-insensitively; "Black" in the URL matches "black".
func foldColor(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldSet(s Set) Set {
	if len(s) == 0 {
		return nil
	}
	out := make(Set, len(s))
	for v := range s {
		out[foldColor(v)] = struct{}{}
	}
	return out
}
