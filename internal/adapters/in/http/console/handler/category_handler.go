// internal/adapters/in/http/console/handler/category_handler.go
package consoleHandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"phonemall/internal/application/usecase"
	categorydom "phonemall/internal/domain/category"
)

type CategoryService interface {
	List(ctx context.Context) ([]categorydom.Category, error)
	GetByID(ctx context.Context, id string) (categorydom.Category, error)
	Create(ctx context.Context, in usecase.CreateCategoryInput) (categorydom.Category, error)
	Update(ctx context.Context, id string, patch categorydom.CategoryPatch) (categorydom.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	uc CategoryService
}

func NewCategoryHandler(uc CategoryService) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type categoryRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ImageRef    *string `json:"image"`
	SortOrder   *int    `json:"sortOrder"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	if items == nil {
		items = []categorydom.Category{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	in := usecase.CreateCategoryInput{ID: req.ID}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Slug != nil {
		in.Slug = *req.Slug
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.ImageRef != nil {
		in.ImageRef = *req.ImageRef
	}
	if req.SortOrder != nil {
		in.SortOrder = *req.SortOrder
	}
	c, err := h.uc.Create(r.Context(), in)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), categorydom.CategoryPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageRef:    req.ImageRef,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
