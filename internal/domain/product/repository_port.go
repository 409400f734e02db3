package product

import (
	"context"
	"errors"
)

// ListFilter narrows a catalog read at the storage boundary.
// Search is a case-insensitive substring match on Name.
type ListFilter struct {
	Search          string
	IncludeInactive bool
}

var (
	ErrNotFound = errors.New("product: not found")
	ErrConflict = errors.New("product: conflict")
)

// Reader is the storefront's view of the catalog.
type Reader interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
}

// Repository adds the console's write side.
type Repository interface {
	Reader
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id string) error
}
