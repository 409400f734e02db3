// internal/adapters/in/http/mall/handler/catalog_handler.go
package mallHandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"phonemall/internal/application/filter"
	dto "phonemall/internal/application/query/mall/dto"
)

// CatalogQuery is the storefront read model.
type CatalogQuery interface {
	ListProducts(ctx context.Context, c filter.Criteria) dto.CatalogDTO
	GetProduct(ctx context.Context, id string) (dto.ProductDTO, error)
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	ListBrands(ctx context.Context) ([]dto.BrandDTO, error)
}

type CatalogHandler struct {
	q CatalogQuery
}

func NewCatalogHandler(q CatalogQuery) *CatalogHandler {
	return &CatalogHandler{q: q}
}

// GET /mall/products?q=&minPrice=&maxPrice=&category=&brand=&color=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, err := filter.ParseCriteria(r.URL.Query())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.q.ListProducts(r.Context(), c))
}

// GET /mall/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.q.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// GET /mall/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.q.ListCategories(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": cats})
}

// GET /mall/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.q.ListBrands(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": brands})
}
