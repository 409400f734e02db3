package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	cartdom "phonemall/internal/domain/cart"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
)

var fixedNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ---- products ----

type memProducts struct {
	mu    sync.Mutex
	items map[string]productdom.Product
	err   error
}

func newMemProducts(ps ...productdom.Product) *memProducts {
	m := &memProducts{items: map[string]productdom.Product{}}
	for _, p := range ps {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) List(_ context.Context, f productdom.ListFilter) ([]productdom.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []productdom.Product
	for _, p := range m.items {
		if (f.IncludeInactive || p.Active) && p.MatchesSearch(f.Search) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (productdom.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return productdom.Product{}, m.err
	}
	p, ok := m.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = "gen-1"
	}
	if _, ok := m.items[p.ID]; ok {
		return productdom.Product{}, productdom.ErrConflict
	}
	m.items[p.ID] = p
	return p, nil
}

func (m *memProducts) Update(_ context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err := p.Apply(patch, fixedNow); err != nil {
		return productdom.Product{}, err
	}
	m.items[id] = p
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// ---- images ----

type memImages struct {
	uploaded map[string][]byte
	deleted  []string
	err      error
}

func (m *memImages) Upload(_ context.Context, productID, _ string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, _ := io.ReadAll(r)
	if m.uploaded == nil {
		m.uploaded = map[string][]byte{}
	}
	ref := "gs://bucket/products/" + productID + "/new.png"
	m.uploaded[ref] = bytes.Clone(b)
	return ref, nil
}

func (m *memImages) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

// ---- carts ----

type memCarts struct {
	carts   map[string]cartdom.Cart
	cleared []string
	readErr error
}

func (m *memCarts) ReadCart(_ context.Context, id string) (cartdom.Cart, error) {
	if m.readErr != nil {
		return cartdom.Cart{}, m.readErr
	}
	return m.carts[id], nil
}

func (m *memCarts) WriteCart(_ context.Context, id string, c cartdom.Cart) error {
	m.carts[id] = c
	return nil
}

func (m *memCarts) ClearCart(_ context.Context, id string) error {
	m.cleared = append(m.cleared, id)
	c := m.carts[id]
	c.Lines = nil
	m.carts[id] = c
	return nil
}

// ---- orders ----

type memOrders struct {
	items map[string]orderdom.Order
}

func newMemOrders(os ...orderdom.Order) *memOrders {
	m := &memOrders{items: map[string]orderdom.Order{}}
	for _, o := range os {
		m.items[o.ID] = o
	}
	return m
}

func (m *memOrders) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := m.items[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) List(_ context.Context, f orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	var out []orderdom.Order
	for _, o := range m.items {
		if f.UserID == "" || o.UserID == f.UserID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return common.Paginate(out, page), nil
}

func (m *memOrders) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	if _, ok := m.items[o.ID]; ok {
		return orderdom.Order{}, orderdom.ErrConflict
	}
	m.items[o.ID] = o
	return o, nil
}

func (m *memOrders) Save(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	m.items[o.ID] = o
	return o, nil
}

// ---- users ----

type memUsers struct {
	items map[string]userdom.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (userdom.User, error) {
	u, ok := m.items[id]
	if !ok {
		return userdom.User{}, userdom.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context, f userdom.Filter, page userdom.Page) (userdom.PageResult, error) {
	var out []userdom.User
	for _, u := range m.items {
		if f.Role == "" || u.Role == f.Role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return common.Paginate(out, page), nil
}

func (m *memUsers) Save(_ context.Context, u userdom.User) (userdom.User, error) {
	m.items[u.ID] = u
	return u, nil
}

// ---- mail ----

type mailRecorder struct {
	sent []orderdom.Order
	err  error
}

func (m *mailRecorder) SendOrderConfirmation(_ context.Context, o orderdom.Order) error {
	m.sent = append(m.sent, o)
	return m.err
}
