// Package filter narrows a product collection by the storefront's sidebar
// selections.
package filter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidCriteria = errors.New("filter: invalid criteria")

// Set is a string set. An empty Set places no constraint on its dimension.
type Set map[string]struct{}

func NewSet(vs ...string) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Criteria is the set of user-selected constraints for a listing.
//
// Search is not evaluated by Apply; it is handed to the catalog reader.
// A MaxPrice of zero means no upper bound, so the zero value matches
// every product, the same as Default.
type Criteria struct {
	Search      string
	MinPrice    float64
	MaxPrice    float64
	CategoryIDs Set
	BrandIDs    Set
	Colors      Set
}

// Default returns criteria that match every product.
func Default() Criteria {
	return Criteria{
		MinPrice:    0,
		MaxPrice:    math.Inf(1),
		CategoryIDs: Set{},
		BrandIDs:    Set{},
		Colors:      Set{},
	}
}

// Query parameter names. Plural and singular forms are both accepted.
const (
	paramSearch   = "q"
	paramMinPrice = "minPrice"
	paramMaxPrice = "maxPrice"
	paramCategory = "category"
	paramBrand    = "brand"
	paramColor    = "color"
)

// ParseCriteria reads criteria from URL query values. Multi-valued
// dimensions accept repeated keys and comma separated values.
func ParseCriteria(q url.Values) (Criteria, error) {
	c := Default()

	c.Search = strings.TrimSpace(first(q, paramSearch, "search"))

	if v := first(q, paramMinPrice); v != "" {
		f, err := parsePrice(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: minPrice %q", ErrInvalidCriteria, v)
		}
		c.MinPrice = f
	}
	if v := first(q, paramMaxPrice); v != "" {
		f, err := parsePrice(v)
		if err != nil {
			return Criteria{}, fmt.Errorf("%w: maxPrice %q", ErrInvalidCriteria, v)
		}
		c.MaxPrice = f
	}
	c.MaxPrice = c.UpperPrice()
	if c.MinPrice > c.MaxPrice {
		return Criteria{}, fmt.Errorf("%w: minPrice %v exceeds maxPrice %v", ErrInvalidCriteria, c.MinPrice, c.MaxPrice)
	}

	c.CategoryIDs = NewSet(multi(q, paramCategory, "categories")...)
	c.BrandIDs = NewSet(multi(q, paramBrand, "brands")...)
	c.Colors = NewSet(multi(q, paramColor, "colors")...)
	return c, nil
}

// Encode renders c as a canonical query string: defaults omitted, keys and
// set members sorted.
func (c Criteria) Encode() string {
	v := url.Values{}
	if s := strings.TrimSpace(c.Search); s != "" {
		v.Set(paramSearch, s)
	}
	if c.MinPrice > 0 {
		v.Set(paramMinPrice, strconv.FormatFloat(c.MinPrice, 'f', -1, 64))
	}
	if upper := c.UpperPrice(); !math.IsInf(upper, 1) {
		v.Set(paramMaxPrice, strconv.FormatFloat(upper, 'f', -1, 64))
	}
	for _, id := range c.CategoryIDs.Sorted() {
		v.Add(paramCategory, id)
	}
	for _, id := range c.BrandIDs.Sorted() {
		v.Add(paramBrand, id)
	}
	for _, col := range c.Colors.Sorted() {
		v.Add(paramColor, col)
	}
	return v.Encode()
}

// UpperPrice is the effective inclusive price ceiling: +Inf when MaxPrice
// is unset.
func (c Criteria) UpperPrice() float64 {
	if c.MaxPrice <= 0 || math.IsNaN(c.MaxPrice) {
		return math.Inf(1)
	}
	return c.MaxPrice
}

// IsZero reports whether c constrains nothing besides search.
func (c Criteria) IsZero() bool {
	return c.MinPrice <= 0 && math.IsInf(c.UpperPrice(), 1) &&
		len(c.CategoryIDs) == 0 && len(c.BrandIDs) == 0 && len(c.Colors) == 0
}

func parsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 {
		return 0, ErrInvalidCriteria
	}
	return f, nil
}

func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

func multi(q url.Values, keys ...string) []string {
	var out []string
	for _, k := range keys {
		for _, raw := range q[k] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}
