// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	productdom "phonemall/internal/domain/product"
)

// ProductImageStore is the object storage port for product images.
type ProductImageStore interface {
	Upload(ctx context.Context, productID, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

type ProductUsecase struct {
	repo   productdom.Repository
	images ProductImageStore
	now    nowFunc
	logger *log.Entry
}

func NewProductUsecase(repo productdom.Repository, images ProductImageStore) *ProductUsecase {
	return &ProductUsecase{
		repo:   repo,
		images: images,
		now:    utcNow,
		logger: log.WithField("component", "product_usecase"),
	}
}

var ErrImageStoreMissing = errors.New("usecase: image store is not configured")

// ==============================
// Queries
// ==============================

// List returns every product, inactive ones included. Storefront reads go
// through the catalog query instead.
func (u *ProductUsecase) List(ctx context.Context, search string) ([]productdom.Product, error) {
	return u.repo.List(ctx, productdom.ListFilter{Search: strings.TrimSpace(search), IncludeInactive: true})
}

func (u *ProductUsecase) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

// ==============================
// Commands
// ==============================

type CreateProductInput struct {
	ID          string
	Name        string
	Description string
	Price       float64
	BrandID     string
	Color       string
	CategoryIDs []string
	ImageRef    string
	Storage     string
	Condition   productdom.Condition
	Stock       int
	Active      *bool
}

func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (productdom.Product, error) {
	p, err := productdom.New(in.ID, in.Name, in.Price, in.BrandID, in.Color, in.CategoryIDs, in.ImageRef, u.now())
	if err != nil {
		return productdom.Product{}, err
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Storage = strings.TrimSpace(in.Storage)
	p.Stock = in.Stock
	if in.Condition != "" {
		p.Condition = in.Condition
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return u.repo.Create(ctx, p)
}

func (u *ProductUsecase) Update(ctx context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	patch.Name = trimPtr(patch.Name)
	patch.BrandID = trimPtr(patch.BrandID)
	patch.Color = trimPtr(patch.Color)
	return u.repo.Update(ctx, strings.TrimSpace(id), patch)
}

// Delete removes the product and, best-effort, its image object.
func (u *ProductUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	if u.images != nil && p.ImageRef != "" {
		if err := u.images.Delete(ctx, p.ImageRef); err != nil {
			u.logger.WithError(err).WithField("productId", id).Warn("image cleanup failed")
		}
	}
	return nil
}

// UploadImage stores a new image and points the product at it. The previous
// image is removed after the product has been updated.
func (u *ProductUsecase) UploadImage(ctx context.Context, id, contentType string, r io.Reader) (productdom.Product, error) {
	if u.images == nil {
		return productdom.Product{}, ErrImageStoreMissing
	}
	id = strings.TrimSpace(id)
	prev, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return productdom.Product{}, err
	}

	ref, err := u.images.Upload(ctx, id, contentType, r)
	if err != nil {
		return productdom.Product{}, fmt.Errorf("usecase: upload image: %w", err)
	}

	updated, err := u.repo.Update(ctx, id, productdom.ProductPatch{ImageRef: &ref})
	if err != nil {
		if derr := u.images.Delete(ctx, ref); derr != nil {
			u.logger.WithError(derr).WithField("ref", ref).Warn("orphaned image cleanup failed")
		}
		return productdom.Product{}, err
	}

	if prev.ImageRef != "" && prev.ImageRef != ref {
		if err := u.images.Delete(ctx, prev.ImageRef); err != nil {
			u.logger.WithError(err).WithField("ref", prev.ImageRef).Warn("old image cleanup failed")
		}
	}
	return updated, nil
}
