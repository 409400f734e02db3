package order

import (
	"context"
	"errors"

	common "phonemall/internal/domain/common"
)

type Filter struct {
	UserID   string
	Statuses []Status
}

type Page = common.Page
type PageResult = common.PageResult[Order]

// Repository is the persistence port for orders (Firestore "orders").
// List returns newest first.
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, filter Filter, page Page) (PageResult, error)
	Create(ctx context.Context, o Order) (Order, error)
	Save(ctx context.Context, o Order) (Order, error)
}

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)
