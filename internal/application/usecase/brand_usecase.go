// internal/application/usecase/brand_usecase.go
package usecase

import (
	"context"
	"strings"

	branddom "phonemall/internal/domain/brand"
)

type BrandUsecase struct {
	repo branddom.Repository
	now  nowFunc
}

func NewBrandUsecase(repo branddom.Repository) *BrandUsecase {
	return &BrandUsecase{repo: repo, now: utcNow}
}

func (u *BrandUsecase) List(ctx context.Context) ([]branddom.Brand, error) {
	return u.repo.List(ctx)
}

func (u *BrandUsecase) GetByID(ctx context.Context, id string) (branddom.Brand, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

type CreateBrandInput struct {
	ID          string
	Name        string
	Description string
	LogoRef     string
	WebsiteURL  string
}

func (u *BrandUsecase) Create(ctx context.Context, in CreateBrandInput) (branddom.Brand, error) {
	b, err := branddom.New(in.ID, in.Name, in.Description, in.LogoRef, in.WebsiteURL, u.now())
	if err != nil {
		return branddom.Brand{}, err
	}
	return u.repo.Create(ctx, b)
}

func (u *BrandUsecase) Update(ctx context.Context, id string, patch branddom.BrandPatch) (branddom.Brand, error) {
	return u.repo.Update(ctx, strings.TrimSpace(id), patch)
}

func (u *BrandUsecase) Delete(ctx context.Context, id string) error {
	return u.repo.Delete(ctx, strings.TrimSpace(id))
}
