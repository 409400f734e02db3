// internal/adapters/in/http/console/handler/product_handler.go
package consoleHandler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"phonemall/internal/application/usecase"
	productdom "phonemall/internal/domain/product"
)

// maxImageBytes caps a single product image upload.
const maxImageBytes = 10 << 20

type ProductService interface {
	List(ctx context.Context, search string) ([]productdom.Product, error)
	GetByID(ctx context.Context, id string) (productdom.Product, error)
	Create(ctx context.Context, in usecase.CreateProductInput) (productdom.Product, error)
	Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id, contentType string, r io.Reader) (productdom.Product, error)
}

// ProductHandler is the back-office product catalog editor.
type ProductHandler struct {
	uc ProductService
}

func NewProductHandler(uc ProductService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productRequest struct {
	ID          string                `json:"id"`
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Price       *float64              `json:"price"`
	BrandID     *string               `json:"brandId"`
	Color       *string               `json:"color"`
	CategoryIDs *[]string             `json:"categoryIds"`
	ImageRef    *string               `json:"image"`
	Storage     *string               `json:"storage"`
	Condition   *productdom.Condition `json:"condition"`
	Stock       *int                  `json:"stock"`
	Active      *bool                 `json:"active"`
}

func (p productRequest) patch() productdom.ProductPatch {
	return productdom.ProductPatch{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		BrandID:     p.BrandID,
		Color:       p.Color,
		CategoryIDs: p.CategoryIDs,
		ImageRef:    p.ImageRef,
		Storage:     p.Storage,
		Condition:   p.Condition,
		Stock:       p.Stock,
		Active:      p.Active,
	}
}

func (p productRequest) create() usecase.CreateProductInput {
	in := usecase.CreateProductInput{ID: p.ID, Active: p.Active}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.BrandID != nil {
		in.BrandID = *p.BrandID
	}
	if p.Color != nil {
		in.Color = *p.Color
	}
	if p.CategoryIDs != nil {
		in.CategoryIDs = *p.CategoryIDs
	}
	if p.ImageRef != nil {
		in.ImageRef = *p.ImageRef
	}
	if p.Storage != nil {
		in.Storage = *p.Storage
	}
	if p.Condition != nil {
		in.Condition = *p.Condition
	}
	if p.Stock != nil {
		in.Stock = *p.Stock
	}
	return in
}

// GET /console/products?q=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	if items == nil {
		items = []productdom.Product{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

// GET /console/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// POST /console/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.uc.Create(r.Context(), req.create())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

// PATCH /console/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.uc.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// DELETE /console/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /console/products/{id}/image
//
// Accepts multipart/form-data with a "file" part, or the raw image bytes with
// an image/* Content-Type.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			writeErr(w, r, http.StatusBadRequest, "invalid multipart body")
			return
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			writeErr(w, r, http.StatusBadRequest, "file is required")
			return
		}
		defer f.Close()
		body = f
		contentType = fh.Header.Get("Content-Type")
	case strings.HasPrefix(mediaType, "image/"):
		body = r.Body
		contentType = mediaType
	default:
		writeErr(w, r, http.StatusUnsupportedMediaType, "expected an image or multipart/form-data")
		return
	}
	if !strings.HasPrefix(contentType, "image/") {
		writeErr(w, r, http.StatusUnsupportedMediaType, "file must be an image")
		return
	}

	p, err := h.uc.UploadImage(r.Context(), chi.URLParam(r, "id"), contentType, body)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}
