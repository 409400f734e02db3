package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	cartdom "phonemall/internal/domain/cart"
	orderdom "phonemall/internal/domain/order"
)

type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

var _ orderdom.Repository = (*OrderRepositoryFS)(nil)

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

type orderDoc struct {
	UserID    string                    `firestore:"userId"`
	Email     string                    `firestore:"email"`
	Lines     []cartLineDoc             `firestore:"lines"`
	Subtotal  float64                   `firestore:"subtotal"`
	Status    string                    `firestore:"status"`
	Shipping  orderdom.ShippingSnapshot `firestore:"shipping"`
	CreatedAt time.Time                 `firestore:"createdAt"`
	UpdatedAt time.Time                 `firestore:"updatedAt"`
}

func orderToDoc(o orderdom.Order) orderDoc {
	lines := make([]cartLineDoc, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, cartLineDoc(l))
	}
	return orderDoc{
		UserID:    o.UserID,
		Email:     o.Email,
		Lines:     lines,
		Subtotal:  o.Subtotal,
		Status:    string(o.Status),
		Shipping:  o.Shipping,
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func orderFromSnapshot(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return orderdom.Order{}, fmt.Errorf("order %s: %w", snap.Ref.ID, err)
	}
	lines := make([]cartdom.CartLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, cartdom.CartLine(l))
	}
	return orderdom.Order{
		ID:        snap.Ref.ID,
		UserID:    d.UserID,
		Email:     d.Email,
		Lines:     lines,
		Subtotal:  d.Subtotal,
		Status:    orderdom.Status(d.Status),
		Shipping:  d.Shipping,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if isNotFound(err) {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err != nil {
		return orderdom.Order{}, err
	}
	return orderFromSnapshot(snap)
}

// List filters by user in Firestore; status filtering, ordering and paging
// happen in memory to avoid composite indexes.
func (r *OrderRepositoryFS) List(ctx context.Context, f orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	q := r.col().Query
	if uid := strings.TrimSpace(f.UserID); uid != "" {
		q = q.Where("userId", "==", uid)
	}

	want := map[orderdom.Status]bool{}
	for _, s := range f.Statuses {
		want[s] = true
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var all []orderdom.Order
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return orderdom.PageResult{}, fmt.Errorf("orders: list: %w", err)
		}
		o, err := orderFromSnapshot(snap)
		if err != nil {
			return orderdom.PageResult{}, err
		}
		if len(want) > 0 && !want[o.Status] {
			continue
		}
		all = append(all, o)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), nil
}

func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}
	if _, err := r.col().Doc(o.ID).Create(ctx, orderToDoc(o)); err != nil {
		if isAlreadyExists(err) {
			return orderdom.Order{}, orderdom.ErrConflict
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryFS) Save(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}
	if _, err := r.col().Doc(o.ID).Set(ctx, orderToDoc(o)); err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}
