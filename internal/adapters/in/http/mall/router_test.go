package mall

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mallHandler "phonemall/internal/adapters/in/http/mall/handler"
	"phonemall/internal/adapters/in/http/middleware"
	"phonemall/internal/adapters/out/localstore"
	"phonemall/internal/application/cartstore"
	"phonemall/internal/application/filter"
	mallquery "phonemall/internal/application/query/mall"
	dto "phonemall/internal/application/query/mall/dto"
	"phonemall/internal/application/usecase"
	cartdom "phonemall/internal/domain/cart"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
)

// ---- fakes ----

type catalogStub struct{ lastCriteria filter.Criteria }

func (c *catalogStub) ListProducts(_ context.Context, cr filter.Criteria) dto.CatalogDTO {
	c.lastCriteria = cr
	return dto.CatalogDTO{Products: []dto.ProductDTO{{ID: "p1", Name: "iPhone 12"}}, Total: 1}
}
func (c *catalogStub) GetProduct(_ context.Context, id string) (dto.ProductDTO, error) {
	if id == "p1" {
		return dto.ProductDTO{ID: "p1"}, nil
	}
	return dto.ProductDTO{}, mallquery.ErrNotFound
}
func (c *catalogStub) ListCategories(context.Context) ([]dto.CategoryDTO, error) {
	return []dto.CategoryDTO{{ID: "x"}}, nil
}
func (c *catalogStub) ListBrands(context.Context) ([]dto.BrandDTO, error) {
	return []dto.BrandDTO{{ID: "apple"}}, nil
}

type productStub map[string]productdom.Product

func (p productStub) GetByID(_ context.Context, id string) (productdom.Product, error) {
	if v, ok := p[id]; ok {
		return v, nil
	}
	return productdom.Product{}, productdom.ErrNotFound
}

type remoteCarts struct {
	mu    sync.Mutex
	carts map[string]cartdom.Cart
}

func (m *remoteCarts) ReadCart(_ context.Context, id string) (cartdom.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[id].Clone(), nil
}
func (m *remoteCarts) WriteCart(_ context.Context, id string, c cartdom.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[id] = c.Clone()
	return nil
}
func (m *remoteCarts) ClearCart(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.carts[id]
	c.Lines = nil
	m.carts[id] = c
	return nil
}

type usersStub struct{}

func (usersStub) Bootstrap(_ context.Context, uid, email, name string) (userdom.User, error) {
	return userdom.New(uid, email, name, time.Now())
}

type checkoutStub struct{ got usecase.CheckoutInput }

func (c *checkoutStub) Checkout(_ context.Context, in usecase.CheckoutInput) (orderdom.Order, error) {
	c.got = in
	if len(in.Lines) == 0 {
		return orderdom.Order{}, usecase.ErrCheckoutEmptyCart
	}
	return orderdom.Order{ID: "o1", UserID: in.UserID, Lines: in.Lines, Status: orderdom.StatusPending}, nil
}

type ordersStub struct{}

func (ordersStub) ListByUser(_ context.Context, uid string, page common.Page) (orderdom.PageResult, error) {
	return common.Paginate([]orderdom.Order{{ID: "o1", UserID: uid}}, page), nil
}
func (ordersStub) Get(_ context.Context, id, uid string, _ bool) (orderdom.Order, error) {
	if id == "o1" {
		return orderdom.Order{ID: "o1", UserID: uid}, nil
	}
	return orderdom.Order{}, orderdom.ErrNotFound
}

// ---- harness ----

type harness struct {
	srv      http.Handler
	registry *cartstore.Registry
	remote   *remoteCarts
	catalog  *catalogStub
	checkout *checkoutStub
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		remote:   &remoteCarts{carts: map[string]cartdom.Cart{}},
		catalog:  &catalogStub{},
		checkout: &checkoutStub{},
	}
	h.registry = cartstore.NewRegistry(cartstore.RegistryConfig{Local: localstore.NewMemory(), Remote: h.remote})
	t.Cleanup(func() { _ = h.registry.Close(context.Background()) })

	products := productStub{
		"p1": {ID: "p1", Name: "iPhone 12", Price: 300, Active: true},
		"p2": {ID: "p2", Name: "Pixel 6", Price: 200, Active: true},
		"p9": {ID: "p9", Name: "Hidden", Price: 1, Active: false},
	}
	router := NewRouter(Deps{
		Catalog: mallHandler.NewCatalogHandler(h.catalog),
		Cart:    mallHandler.NewCartHandler(h.registry, products, nil),
		Me:      mallHandler.NewMeHandler(usersStub{}, h.checkout, ordersStub{}, h.registry, nil),
	})

	// test identity: X-Test-Uid stands in for a verified ID token
	h.srv = middleware.Session(middleware.SessionOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := r.Header.Get("X-Test-Uid"); uid != "" {
			r = r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{UID: uid, Email: uid + "@example.com"}))
		}
		router.ServeHTTP(w, r)
	}))
	return h
}

type call struct {
	method, path, session, uid string
	body                       any
}

func (h *harness) do(t *testing.T, c call) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	if c.body == nil {
		req.ContentLength = 0
	}
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	if c.uid != "" {
		req.Header.Set("X-Test-Uid", c.uid)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func lineQuantities(body map[string]any) map[string]float64 {
	out := map[string]float64{}
	lines, _ := body["lines"].([]any)
	for _, l := range lines {
		m := l.(map[string]any)
		out[m["productId"].(string)] = m["quantity"].(float64)
	}
	return out
}

// ---- tests ----

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t)

	rec, body := h.do(t, call{method: http.MethodGet, path: "/products?q=iphone&color=black,red&maxPrice=500"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, "iphone", h.catalog.lastCriteria.Search)
	assert.True(t, h.catalog.lastCriteria.Colors.Has("red"))

	rec, _ = h.do(t, call{method: http.MethodGet, path: "/products?minPrice=abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = h.do(t, call{method: http.MethodGet, path: "/products/p1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = h.do(t, call{method: http.MethodGet, path: "/products/zzz"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = h.do(t, call{method: http.MethodGet, path: "/categories"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["items"], 1)
}

func TestAnonymousCartFlow(t *testing.T) {
	h := newHarness(t)
	sid := uuid.NewString()

	rec, body := h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p1", "quantity": 2, "color": "blue"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sid, rec.Header().Get(middleware.SessionHeader))
	assert.Equal(t, map[string]float64{"p1": 2}, lineQuantities(body))
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "Item added", notes[0].(map[string]any)["title"])

	_, body = h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p1", "color": "blue"}})
	assert.Equal(t, map[string]float64{"p1": 3}, lineQuantities(body))
	assert.EqualValues(t, 900, body["subtotal"])

	_, body = h.do(t, call{method: http.MethodPut, path: "/cart/items", session: sid, body: map[string]any{"productId": "p1", "color": "blue", "quantity": 5}})
	assert.Equal(t, map[string]float64{"p1": 5}, lineQuantities(body))

	_, body = h.do(t, call{method: http.MethodDelete, path: "/cart/items?productId=p1&color=blue", session: sid})
	assert.Empty(t, lineQuantities(body))

	rec, _ = h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p9"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p2", "quantity": -1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, body = h.do(t, call{method: http.MethodPost, path: "/cart/save", session: sid})
	notes = body["notifications"].([]any)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Unauthenticated", notes[len(notes)-1].(map[string]any)["title"])

	assert.Empty(t, h.remote.carts)
}

func TestSignInAdoptsLocalCartWhenRemoteEmpty(t *testing.T) {
	h := newHarness(t)
	sid := uuid.NewString()

	h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p2"}})

	rec, body := h.do(t, call{method: http.MethodPost, path: "/me/sign-in", session: sid, uid: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := body["cart"].(map[string]any)
	assert.Equal(t, true, cart["signedIn"])
	assert.Equal(t, map[string]float64{"p2": 1}, lineQuantities(cart))

	require.NoError(t, h.registry.Close(context.Background()))
	h.remote.mu.Lock()
	defer h.remote.mu.Unlock()
	require.Len(t, h.remote.carts["u1"].Lines, 1)
	assert.Equal(t, "p2", h.remote.carts["u1"].Lines[0].ProductID)
}

func TestSignInRemoteWins(t *testing.T) {
	h := newHarness(t)
	h.remote.carts["u1"] = cartdom.Cart{Version: 3, Lines: []cartdom.CartLine{{ProductID: "p1", Name: "iPhone 12", Price: 300, Quantity: 4}}}
	sid := uuid.NewString()

	h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, body: map[string]any{"productId": "p2"}})
	_, body := h.do(t, call{method: http.MethodGet, path: "/cart", session: sid, uid: "u1"})
	assert.Equal(t, map[string]float64{"p1": 4}, lineQuantities(body))
}

func TestMeRoutes(t *testing.T) {
	h := newHarness(t)
	sid := uuid.NewString()

	rec, _ := h.do(t, call{method: http.MethodGet, path: "/me/orders", session: sid})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ship := map[string]any{"shipping": map[string]any{"name": "Ann", "street": "1 Main", "city": "Austin", "country": "US"}}
	rec, _ = h.do(t, call{method: http.MethodPost, path: "/me/checkout", session: sid, uid: "u1", body: ship})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	h.do(t, call{method: http.MethodPost, path: "/cart/items", session: sid, uid: "u1", body: map[string]any{"productId": "p1"}})
	rec, body := h.do(t, call{method: http.MethodPost, path: "/me/checkout", session: sid, uid: "u1", body: ship})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "o1", body["order"].(map[string]any)["id"])
	assert.Empty(t, lineQuantities(body["cart"].(map[string]any)))
	assert.Equal(t, "u1", h.checkout.got.UserID)
	assert.Equal(t, "u1@example.com", h.checkout.got.Email)
	assert.Equal(t, "Austin", h.checkout.got.Shipping.City)

	rec, body = h.do(t, call{method: http.MethodGet, path: "/me/orders?perPage=10", session: sid, uid: "u1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalCount"])

	rec, _ = h.do(t, call{method: http.MethodGet, path: "/me/orders/nope", session: sid, uid: "u1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
