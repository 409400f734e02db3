// internal/adapters/in/http/console/handler/brand_handler.go
package consoleHandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"phonemall/internal/application/usecase"
	branddom "phonemall/internal/domain/brand"
)

type BrandService interface {
	List(ctx context.Context) ([]branddom.Brand, error)
	GetByID(ctx context.Context, id string) (branddom.Brand, error)
	Create(ctx context.Context, in usecase.CreateBrandInput) (branddom.Brand, error)
	Update(ctx context.Context, id string, patch branddom.BrandPatch) (branddom.Brand, error)
	Delete(ctx context.Context, id string) error
}

type BrandHandler struct {
	uc BrandService
}

func NewBrandHandler(uc BrandService) *BrandHandler {
	return &BrandHandler{uc: uc}
}

type brandRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoRef     *string `json:"logo"`
	WebsiteURL  *string `json:"websiteUrl"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	if items == nil {
		items = []branddom.Brand{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.uc.Create(r.Context(), usecase.CreateBrandInput{
		ID:          req.ID,
		Name:        deref(req.Name),
		Description: deref(req.Description),
		LogoRef:     deref(req.LogoRef),
		WebsiteURL:  deref(req.WebsiteURL),
	})
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, b)
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), branddom.BrandPatch{
		Name:        req.Name,
		Description: req.Description,
		LogoRef:     req.LogoRef,
		URL:         req.WebsiteURL,
	})
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
