package category

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("category: not found")
	ErrConflict = errors.New("category: conflict")
)

// Repository lists categories ordered by SortOrder, then Name.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (Category, error)
	Delete(ctx context.Context, id string) error
}
