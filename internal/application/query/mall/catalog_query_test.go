package mall

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonemall/internal/application/filter"
	branddom "phonemall/internal/domain/brand"
	categorydom "phonemall/internal/domain/category"
	productdom "phonemall/internal/domain/product"
)

type fakeProducts struct {
	items      []productdom.Product
	err        error
	lastSearch string
}

func (f *fakeProducts) List(_ context.Context, lf productdom.ListFilter) ([]productdom.Product, error) {
	f.lastSearch = lf.Search
	if f.err != nil {
		return nil, f.err
	}
	var out []productdom.Product
	for _, p := range f.items {
		if (lf.IncludeInactive || p.Active) && p.MatchesSearch(lf.Search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (productdom.Product, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return productdom.Product{}, productdom.ErrNotFound
}

type fakeBrands struct {
	items []branddom.Brand
	err   error
}

func (f fakeBrands) List(context.Context) ([]branddom.Brand, error) { return f.items, f.err }

type fakeCategories struct {
	items []categorydom.Category
	err   error
}

func (f fakeCategories) List(context.Context) ([]categorydom.Category, error) { return f.items, f.err }

type prefixResolver string

func (p prefixResolver) Resolve(_ context.Context, ref string) string { return string(p) + ref }

func catalog() *fakeProducts {
	return &fakeProducts{items: []productdom.Product{
		{ID: "p1", Name: "iPhone 12", Price: 10, BrandID: "apple", Color: "Black", CategoryIDs: []string{"x"}, ImageRef: "products/p1.jpg", Stock: 3, Active: true},
		{ID: "p2", Name: "Galaxy S21", Price: 50, BrandID: "samsung", Color: "white", CategoryIDs: []string{"y"}, Active: true},
		{ID: "p3", Name: "iPhone 13", Price: 30, BrandID: "apple", Color: "black", CategoryIDs: []string{"x", "y"}, Stock: 1, Active: true},
		{ID: "p4", Name: "iPhone 8", Price: 5, BrandID: "apple", Color: "red", Active: false},
	}}
}

func newQuery(p *fakeProducts) *CatalogQuery {
	return NewCatalogQuery(
		p,
		fakeBrands{items: []branddom.Brand{{ID: "apple", Name: "Apple"}, {ID: "samsung", Name: "Samsung"}}},
		fakeCategories{items: []categorydom.Category{{ID: "x", Name: "Flagship", ImageRef: "cat/x.png"}, {ID: "y", Name: "5G"}}},
		prefixResolver("https://img/"),
	)
}

func mustCriteria(t *testing.T, raw string) filter.Criteria {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	c, err := filter.ParseCriteria(v)
	require.NoError(t, err)
	return c
}

func TestListProductsAppliesSearchThenFilters(t *testing.T) {
	p := catalog()
	q := newQuery(p)

	got := q.ListProducts(context.Background(), mustCriteria(t, "q=iphone&maxPrice=20"))
	assert.Equal(t, "iphone", p.lastSearch)
	assert.False(t, got.Degraded)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "p1", got.Products[0].ID)
	assert.Equal(t, "Apple", got.Products[0].Brand.Name)
	assert.Equal(t, "https://img/products/p1.jpg", got.Products[0].Image)
	assert.True(t, got.Products[0].InStock)

	// facets cover the search-narrowed set, not the filtered one
	require.Len(t, got.Facets.Brands, 1)
	assert.Equal(t, "apple", got.Facets.Brands[0].Value)
	assert.Equal(t, 2, got.Facets.Brands[0].Count)
	assert.Equal(t, "Apple", got.Facets.Brands[0].Label)
	assert.InDelta(t, 10, got.Facets.MinPrice, 0)
	assert.InDelta(t, 30, got.Facets.MaxPrice, 0)

	require.NotNil(t, got.Criteria.MaxPrice)
	assert.InDelta(t, 20, *got.Criteria.MaxPrice, 0)
	assert.Equal(t, "maxPrice=20&q=iphone", got.Criteria.Query)
}

func TestListProductsKeepsCatalogOrder(t *testing.T) {
	got := newQuery(catalog()).ListProducts(context.Background(), mustCriteria(t, "category=x,y"))
	ids := make([]string, 0, len(got.Products))
	for _, p := range got.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
	assert.Equal(t, 3, got.Total)
	assert.Nil(t, got.Criteria.MaxPrice)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "maxPrice\":null")
}

func TestListProductsDegradesOnReadFailure(t *testing.T) {
	p := catalog()
	p.err = errors.New("firestore unavailable")
	got := newQuery(p).ListProducts(context.Background(), filter.Default())
	assert.True(t, got.Degraded)
	assert.Empty(t, got.Products)
	assert.NotNil(t, got.Products)

	q := newQuery(catalog())
	q.Brands = fakeBrands{err: errors.New("boom")}
	got = q.ListProducts(context.Background(), filter.Default())
	assert.True(t, got.Degraded)
	assert.Len(t, got.Products, 3)
	assert.Empty(t, got.Products[0].Brand.Name)
}

func TestGetProduct(t *testing.T) {
	q := newQuery(catalog())
	ctx := context.Background()

	p, err := q.GetProduct(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 13", p.Name)
	assert.Equal(t, "Apple", p.Brand.Name)

	_, err = q.GetProduct(ctx, "p4")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = q.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = q.GetProduct(ctx, " ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaxonomy(t *testing.T) {
	q := newQuery(catalog())
	cats, err := q.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "https://img/cat/x.png", cats[0].Image)
	assert.Empty(t, cats[1].Image)

	brands, err := q.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 2)

	q.Categories = fakeCategories{err: errors.New("down")}
	_, err = q.ListCategories(context.Background())
	assert.Error(t, err)
}
