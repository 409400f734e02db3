package filter

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemall/internal/domain/product"
)

func catalog() []product.Product {
	return []product.Product{
		{ID: "1", Name: "iPhone 12", Price: 10, BrandID: "A", Color: "black", CategoryIDs: []string{"x"}, Stock: 1},
		{ID: "2", Name: "Galaxy S21", Price: 50, BrandID: "B", Color: "White", CategoryIDs: []string{"y"}},
		{ID: "3", Name: "Pixel 6", Price: 30, BrandID: "C", Color: "black", CategoryIDs: []string{"x", "z"}, Stock: 4},
		{ID: "4", Name: "iPhone 13", Price: 20, BrandID: "A", Color: "blue", CategoryIDs: nil, Stock: 2},
	}
}

func ids(ps []product.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyPriceScenario(t *testing.T) {
	products := []product.Product{
		{ID: "1", Price: 10, BrandID: "A", CategoryIDs: []string{"x"}},
		{ID: "2", Price: 50, BrandID: "B", CategoryIDs: []string{"y"}},
	}
	c := Criteria{MinPrice: 0, MaxPrice: 20, CategoryIDs: Set{}, BrandIDs: Set{}, Colors: Set{}}

	got := Apply(products, c)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestApplyEmptyCriteriaIsIdentity(t *testing.T) {
	in := catalog()
	got := Apply(in, Default())
	assert.Equal(t, in, got)
}

func TestApplyZeroCriteriaMatchesAll(t *testing.T) {
	in := catalog()
	assert.Equal(t, in, Apply(in, Criteria{}))
	assert.True(t, Criteria{}.IsZero())
	assert.Empty(t, Criteria{}.Encode())

	c := Criteria{MinPrice: 25}
	assert.Equal(t, []string{"2", "3"}, ids(Apply(in, c)))
}

func TestApplyIsPureAndStable(t *testing.T) {
	in := catalog()
	before := catalog()
	c := Default()
	c.Colors = NewSet("black", "blue")

	first := Apply(in, c)
	second := Apply(in, c)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"1", "3", "4"}, ids(first))
	assert.Equal(t, before, in)
}

func TestApplyDimensions(t *testing.T) {
	cases := []struct {
		name string
		mod  func(c *Criteria)
		want []string
	}{
		{"category any-of", func(c *Criteria) { c.CategoryIDs = NewSet("z", "y") }, []string{"2", "3"}},
		{"brand", func(c *Criteria) { c.BrandIDs = NewSet("A") }, []string{"1", "4"}},
		{"color case-insensitive", func(c *Criteria) { c.Colors = NewSet("WHITE") }, []string{"2"}},
		{"price bounds inclusive", func(c *Criteria) { c.MinPrice, c.MaxPrice = 20, 30 }, []string{"3", "4"}},
		{"and across dimensions", func(c *Criteria) {
			c.BrandIDs = NewSet("A", "C")
			c.CategoryIDs = NewSet("x")
			c.MaxPrice = 25
		}, []string{"1"}},
		{"nothing matches", func(c *Criteria) { c.BrandIDs = NewSet("Z") }, []string{}},
		{"search is not applied", func(c *Criteria) { c.Search = "pixel" }, []string{"1", "2", "3", "4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mod(&c)
			assert.Equal(t, tc.want, ids(Apply(catalog(), c)))
		})
	}
}

func TestParseCriteria(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := ParseCriteria(url.Values{})
		require.NoError(t, err)
		assert.True(t, c.IsZero())
		assert.True(t, math.IsInf(c.MaxPrice, 1))
	})

	t.Run("repeated and comma separated", func(t *testing.T) {
		q, _ := url.ParseQuery("q=+iphone+&minPrice=5&maxPrice=99.5&category=x,y&categories=z&brand=A&brand=B&colors=black,%20white")
		c, err := ParseCriteria(q)
		require.NoError(t, err)
		assert.Equal(t, "iphone", c.Search)
		assert.Equal(t, 5.0, c.MinPrice)
		assert.Equal(t, 99.5, c.MaxPrice)
		assert.Equal(t, []string{"x", "y", "z"}, c.CategoryIDs.Sorted())
		assert.Equal(t, []string{"A", "B"}, c.BrandIDs.Sorted())
		assert.Equal(t, []string{"black", "white"}, c.Colors.Sorted())
	})

	t.Run("search alias", func(t *testing.T) {
		c, err := ParseCriteria(url.Values{"search": {"Pixel"}})
		require.NoError(t, err)
		assert.Equal(t, "Pixel", c.Search)
	})

	t.Run("zero maxPrice is unbounded", func(t *testing.T) {
		c, err := ParseCriteria(url.Values{"minPrice": {"50"}, "maxPrice": {"0"}})
		require.NoError(t, err)
		assert.True(t, math.IsInf(c.MaxPrice, 1))
		assert.Equal(t, "minPrice=50", c.Encode())
	})

	for _, raw := range []string{"minPrice=abc", "maxPrice=NaN", "minPrice=-1", "minPrice=50&maxPrice=10"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			q, _ := url.ParseQuery(raw)
			_, err := ParseCriteria(q)
			assert.ErrorIs(t, err, ErrInvalidCriteria)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	c.Search = "galaxy"
	c.MinPrice = 10
	c.MaxPrice = 250
	c.BrandIDs = NewSet("B", "A")
	c.Colors = NewSet("red")

	s := c.Encode()
	assert.Equal(t, "brand=A&brand=B&color=red&maxPrice=250&minPrice=10&q=galaxy", s)

	q, err := url.ParseQuery(s)
	require.NoError(t, err)
	back, err := ParseCriteria(q)
	require.NoError(t, err)
	assert.Equal(t, c, back)

	assert.Empty(t, Default().Encode())
}

func TestFacets(t *testing.T) {
	fs := Facets(catalog())

	assert.Equal(t, []Facet{{"A", 2}, {"B", 1}, {"C", 1}}, fs.Brands)
	assert.Equal(t, []Facet{{"black", 2}, {"blue", 1}, {"white", 1}}, fs.Colors)
	assert.Equal(t, []Facet{{"x", 2}, {"y", 1}, {"z", 1}}, fs.Categories)
	assert.Equal(t, PriceRange{Min: 10, Max: 50}, fs.PriceRange)
	assert.Equal(t, Availability{InStock: 3, OutOfStock: 1}, fs.Availability)

	empty := Facets(nil)
	assert.Empty(t, empty.Brands)
	assert.Zero(t, empty.PriceRange)
}
