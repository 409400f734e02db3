package brand

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("brand: not found")
	ErrConflict = errors.New("brand: conflict")
)

type Repository interface {
	List(ctx context.Context) ([]Brand, error)
	GetByID(ctx context.Context, id string) (Brand, error)
	Create(ctx context.Context, b Brand) (Brand, error)
	Update(ctx context.Context, id string, patch BrandPatch) (Brand, error)
	Delete(ctx context.Context, id string) error
}
