// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"strings"

	categorydom "phonemall/internal/domain/category"
)

type CategoryUsecase struct {
	repo categorydom.Repository
	now  nowFunc
}

func NewCategoryUsecase(repo categorydom.Repository) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, now: utcNow}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]categorydom.Category, error) {
	return u.repo.List(ctx)
}

func (u *CategoryUsecase) GetByID(ctx context.Context, id string) (categorydom.Category, error) {
	return u.repo.GetByID(ctx, strings.TrimSpace(id))
}

type CreateCategoryInput struct {
	ID          string
	Name        string
	Slug        string
	Description string
	ImageRef    string
	SortOrder   int
}

func (u *CategoryUsecase) Create(ctx context.Context, in CreateCategoryInput) (categorydom.Category, error) {
	c, err := categorydom.New(in.ID, in.Name, in.Slug, in.Description, in.SortOrder, u.now())
	if err != nil {
		return categorydom.Category{}, err
	}
	c.ImageRef = strings.TrimSpace(in.ImageRef)
	return u.repo.Create(ctx, c)
}

func (u *CategoryUsecase) Update(ctx context.Context, id string, patch categorydom.CategoryPatch) (categorydom.Category, error) {
	return u.repo.Update(ctx, strings.TrimSpace(id), patch)
}

func (u *CategoryUsecase) Delete(ctx context.Context, id string) error {
	return u.repo.Delete(ctx, strings.TrimSpace(id))
}
