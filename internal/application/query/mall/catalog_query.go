// internal/application/query/mall/catalog_query.go
package mall

import (
	"context"
	"errors"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"phonemall/internal/application/filter"
	dto "phonemall/internal/application/query/mall/dto"
	branddom "phonemall/internal/domain/brand"
	categorydom "phonemall/internal/domain/category"
	productdom "phonemall/internal/domain/product"
)

// ============================================================
// Ports
// ============================================================

type BrandLister interface {
	List(ctx context.Context) ([]branddom.Brand, error)
}

type CategoryLister interface {
	List(ctx context.Context) ([]categorydom.Category, error)
}

// ImageResolver turns a stored image reference into a URL the client can load.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) string
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(_ context.Context, ref string) string { return ref }

// ============================================================
// Query
// ============================================================

type CatalogQuery struct {
	Products   productdom.Reader
	Brands     BrandLister
	Categories CategoryLister
	Images     ImageResolver
	logger     *log.Entry
}

func NewCatalogQuery(products productdom.Reader, brands BrandLister, categories CategoryLister, images ImageResolver) *CatalogQuery {
	if images == nil {
		images = passthroughResolver{}
	}
	return &CatalogQuery{
		Products:   products,
		Brands:     brands,
		Categories: categories,
		Images:     images,
		logger:     log.WithField("component", "catalog_query"),
	}
}

// ListProducts reads the search-narrowed catalog, runs the filter pipeline
// over it and builds the listing. Read failures never surface as errors: the
// affected part is left empty and Degraded is set.
func (q *CatalogQuery) ListProducts(ctx context.Context, c filter.Criteria) dto.CatalogDTO {
	var (
		products   []productdom.Product
		brands     []branddom.Brand
		categories []categorydom.Category
		degraded   bool
	)

	errs := make([]error, 3)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, errs[0] = q.Products.List(gctx, productdom.ListFilter{Search: c.Search})
		return nil
	})
	if q.Brands != nil {
		g.Go(func() error {
			brands, errs[1] = q.Brands.List(gctx)
			return nil
		})
	}
	if q.Categories != nil {
		g.Go(func() error {
			categories, errs[2] = q.Categories.List(gctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, what := range []string{"products", "brands", "categories"} {
		if errs[i] != nil {
			degraded = true
			q.logger.WithError(errs[i]).WithField("read", what).Warn("catalog read failed")
		}
	}
	if errs[0] != nil {
		products = nil
	}

	brandNames := make(map[string]string, len(brands))
	for _, b := range brands {
		brandNames[b.ID] = b.Name
	}
	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	filtered := filter.Apply(products, c)
	out := dto.CatalogDTO{
		Products: make([]dto.ProductDTO, 0, len(filtered)),
		Total:    len(filtered),
		Facets:   facetsDTO(filter.Facets(products), brandNames, categoryNames),
		Criteria: criteriaDTO(c),
		Degraded: degraded,
	}
	for _, p := range filtered {
		out.Products = append(out.Products, q.productDTO(ctx, p, brandNames))
	}
	return out
}

// GetProduct returns one active product. Inactive products are reported as
// not found to storefront callers.
func (q *CatalogQuery) GetProduct(ctx context.Context, id string) (dto.ProductDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.ProductDTO{}, ErrNotFound
	}
	p, err := q.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			return dto.ProductDTO{}, ErrNotFound
		}
		return dto.ProductDTO{}, err
	}
	if !p.Active {
		return dto.ProductDTO{}, ErrNotFound
	}

	names := map[string]string{}
	if q.Brands != nil && p.BrandID != "" {
		if bs, err := q.Brands.List(ctx); err == nil {
			for _, b := range bs {
				names[b.ID] = b.Name
			}
		} else {
			q.logger.WithError(err).Warn("brand lookup failed")
		}
	}
	return q.productDTO(ctx, p, names), nil
}

func (q *CatalogQuery) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	cats, err := q.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, dto.CategoryDTO{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Image:       q.image(ctx, c.ImageRef),
		})
	}
	return out, nil
}

func (q *CatalogQuery) ListBrands(ctx context.Context) ([]dto.BrandDTO, error) {
	brands, err := q.Brands.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandDTO, 0, len(brands))
	for _, b := range brands {
		out = append(out, dto.BrandDTO{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Logo:        q.image(ctx, b.LogoRef),
			WebsiteURL:  b.URL,
		})
	}
	return out, nil
}

// ============================================================
// mapping
// ============================================================

func (q *CatalogQuery) productDTO(ctx context.Context, p productdom.Product, brandNames map[string]string) dto.ProductDTO {
	cats := p.CategoryIDs
	if cats == nil {
		cats = []string{}
	}
	return dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Brand:       dto.RefDTO{ID: p.BrandID, Name: brandNames[p.BrandID]},
		Color:       p.Color,
		CategoryIDs: cats,
		Image:       q.image(ctx, p.ImageRef),
		Storage:     p.Storage,
		Condition:   string(p.Condition),
		InStock:     p.Stock > 0,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (q *CatalogQuery) image(ctx context.Context, ref string) string {
	if strings.TrimSpace(ref) == "" {
		return ""
	}
	return q.Images.Resolve(ctx, ref)
}

func facetsDTO(fs filter.FacetSet, brandNames, categoryNames map[string]string) dto.FacetsDTO {
	return dto.FacetsDTO{
		Brands:     labelled(fs.Brands, brandNames),
		Colors:     labelled(fs.Colors, nil),
		Categories: labelled(fs.Categories, categoryNames),
		MinPrice:   fs.PriceRange.Min,
		MaxPrice:   fs.PriceRange.Max,
		InStock:    fs.Availability.InStock,
		OutOfStock: fs.Availability.OutOfStock,
	}
}

func labelled(in []filter.Facet, labels map[string]string) []dto.FacetDTO {
	out := make([]dto.FacetDTO, 0, len(in))
	for _, f := range in {
		out = append(out, dto.FacetDTO{Value: f.Value, Label: labels[f.Value], Count: f.Count})
	}
	return out
}

func criteriaDTO(c filter.Criteria) dto.CriteriaDTO {
	out := dto.CriteriaDTO{
		Search:      strings.TrimSpace(c.Search),
		MinPrice:    c.MinPrice,
		CategoryIDs: c.CategoryIDs.Sorted(),
		BrandIDs:    c.BrandIDs.Sorted(),
		Colors:      c.Colors.Sorted(),
		Query:       c.Encode(),
	}
	if maxPrice := c.UpperPrice(); !math.IsInf(maxPrice, 1) {
		out.MaxPrice = &maxPrice
	}
	return out
}
