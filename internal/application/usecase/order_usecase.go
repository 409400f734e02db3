// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"strings"

	orderdom "phonemall/internal/domain/order"
)

type OrderUsecase struct {
	repo orderdom.Repository
	now  nowFunc
}

func NewOrderUsecase(repo orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{repo: repo, now: utcNow}
}

// ==============================
// Customer
// ==============================

func (u *OrderUsecase) ListByUser(ctx context.Context, userID string, page orderdom.Page) (orderdom.PageResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return orderdom.PageResult{}, ErrForbidden
	}
	return u.repo.List(ctx, orderdom.Filter{UserID: userID}, page)
}

// Get returns the order if requester owns it or is an admin. Orders owned
// by someone else are reported as not found.
func (u *OrderUsecase) Get(ctx context.Context, id, requesterID string, admin bool) (orderdom.Order, error) {
	o, err := u.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return orderdom.Order{}, err
	}
	if !admin && o.UserID != strings.TrimSpace(requesterID) {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

// ==============================
// Console
// ==============================

func (u *OrderUsecase) List(ctx context.Context, f orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	return u.repo.List(ctx, f, page)
}

func (u *OrderUsecase) UpdateStatus(ctx context.Context, id string, next orderdom.Status) (orderdom.Order, error) {
	o, err := u.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return orderdom.Order{}, err
	}
	if err := o.Transition(orderdom.Status(strings.ToLower(strings.TrimSpace(string(next)))), u.now()); err != nil {
		return orderdom.Order{}, err
	}
	return u.repo.Save(ctx, o)
}
