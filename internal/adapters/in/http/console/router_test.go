package console

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consoleHandler "phonemall/internal/adapters/in/http/console/handler"
	"phonemall/internal/adapters/in/http/middleware"
	"phonemall/internal/application/usecase"
	branddom "phonemall/internal/domain/brand"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// ---- stubs ----

type productStub struct {
	items    map[string]productdom.Product
	uploaded []byte
	ctype    string
}

func (s *productStub) List(context.Context, string) ([]productdom.Product, error) {
	out := []productdom.Product{}
	for _, p := range s.items {
		out = append(out, p)
	}
	return out, nil
}
func (s *productStub) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}
func (s *productStub) Create(_ context.Context, in usecase.CreateProductInput) (productdom.Product, error) {
	p, err := productdom.New(in.ID, in.Name, in.Price, in.BrandID, in.Color, in.CategoryIDs, in.ImageRef, now)
	if err != nil {
		return productdom.Product{}, err
	}
	if _, dup := s.items[p.ID]; dup {
		return productdom.Product{}, productdom.ErrConflict
	}
	s.items[p.ID] = p
	return p, nil
}
func (s *productStub) Update(_ context.Context, id string, patch productdom.ProductPatch) (productdom.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err := p.Apply(patch, now); err != nil {
		return productdom.Product{}, err
	}
	s.items[id] = p
	return p, nil
}
func (s *productStub) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(s.items, id)
	return nil
}
func (s *productStub) UploadImage(_ context.Context, id, contentType string, r io.Reader) (productdom.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return productdom.Product{}, err
	}
	s.uploaded, s.ctype = b, contentType
	p.ImageRef = "products/" + id + "/img"
	s.items[id] = p
	return p, nil
}

type brandStub struct{}

func (brandStub) List(context.Context) ([]branddom.Brand, error) { return nil, nil }
func (brandStub) GetByID(context.Context, string) (branddom.Brand, error) {
	return branddom.Brand{}, branddom.ErrNotFound
}
func (brandStub) Create(_ context.Context, in usecase.CreateBrandInput) (branddom.Brand, error) {
	if strings.TrimSpace(in.Name) == "" {
		return branddom.Brand{}, branddom.ErrInvalidName
	}
	return branddom.Brand{ID: in.ID, Name: in.Name, URL: in.WebsiteURL}, nil
}
func (brandStub) Update(context.Context, string, branddom.BrandPatch) (branddom.Brand, error) {
	return branddom.Brand{}, branddom.ErrNotFound
}
func (brandStub) Delete(context.Context, string) error { return nil }

type orderStub struct {
	order    orderdom.Order
	lastList orderdom.Filter
}

func (s *orderStub) List(_ context.Context, f orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	s.lastList = f
	return common.Paginate([]orderdom.Order{s.order}, page), nil
}
func (s *orderStub) Get(_ context.Context, id, _ string, admin bool) (orderdom.Order, error) {
	if id != s.order.ID || !admin {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return s.order, nil
}
func (s *orderStub) UpdateStatus(_ context.Context, id string, next orderdom.Status) (orderdom.Order, error) {
	if id != s.order.ID {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	if err := s.order.Transition(orderdom.Status(strings.ToLower(string(next))), now); err != nil {
		return orderdom.Order{}, err
	}
	return s.order, nil
}

type userStub struct{ admins map[string]bool }

func (s userStub) IsAdmin(_ context.Context, uid string) bool { return s.admins[uid] }
func (userStub) List(_ context.Context, _ userdom.Filter, page userdom.Page) (userdom.PageResult, error) {
	return common.Paginate([]userdom.User{}, page), nil
}
func (userStub) GetByID(context.Context, string) (userdom.User, error) {
	return userdom.User{}, userdom.ErrNotFound
}
func (userStub) SetRole(_ context.Context, id string, role userdom.Role) (userdom.User, error) {
	if !role.Valid() {
		return userdom.User{}, userdom.ErrInvalidRole
	}
	return userdom.User{ID: id, Role: role}, nil
}

// ---- harness ----

type fixture struct {
	srv      http.Handler
	products *productStub
	orders   *orderStub
}

func newFixture() *fixture {
	f := &fixture{
		products: &productStub{items: map[string]productdom.Product{
			"p1": {ID: "p1", Name: "iPhone 12", Price: 300, BrandID: "apple", Active: true},
		}},
		orders: &orderStub{order: orderdom.Order{ID: "o1", UserID: "u1", Status: orderdom.StatusPending}},
	}
	users := userStub{admins: map[string]bool{"staff": true}}
	router := NewRouter(Deps{
		Admins:   users,
		Products: consoleHandler.NewProductHandler(f.products),
		Brands:   consoleHandler.NewBrandHandler(brandStub{}),
		Orders:   consoleHandler.NewOrderHandler(f.orders),
		Users:    consoleHandler.NewUserHandler(users),
	})
	f.srv = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := r.Header.Get("X-Test-Uid"); uid != "" {
			p := middleware.Principal{UID: uid, Admin: r.Header.Get("X-Test-Admin") == "1"}
			r = r.WithContext(middleware.WithPrincipal(r.Context(), p))
		}
		router.ServeHTTP(w, r)
	})
	return f
}

func (f *fixture) send(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-Test-Uid", uid)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestConsoleRequiresAdmin(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusUnauthorized, f.send(t, http.MethodGet, "/products", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.send(t, http.MethodGet, "/products", "shopper", nil).Code)
	assert.Equal(t, http.StatusOK, f.send(t, http.MethodGet, "/products", "staff", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Test-Uid", "claims-admin")
	req.Header.Set("X-Test-Admin", "1")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConsoleProductCRUD(t *testing.T) {
	f := newFixture()

	rec := f.send(t, http.MethodPost, "/products", "staff", map[string]any{
		"id": "p2", "name": "Pixel 6", "price": 249.5, "brandId": "google", "color": "black",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.send(t, http.MethodPost, "/products", "staff", map[string]any{"id": "p2", "name": "Pixel 6", "price": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.send(t, http.MethodPost, "/products", "staff", map[string]any{"id": "p3", "name": "Bad", "price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.send(t, http.MethodPatch, "/products/p2", "staff", map[string]any{"price": 199})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 199.0, f.products.items["p2"].Price)
	assert.Equal(t, "Pixel 6", f.products.items["p2"].Name)

	assert.Equal(t, http.StatusNotFound, f.send(t, http.MethodGet, "/products/zzz", "staff", nil).Code)
	assert.Equal(t, http.StatusNoContent, f.send(t, http.MethodDelete, "/products/p2", "staff", nil).Code)
	assert.NotContains(t, f.products.items, "p2")
}

func TestConsoleProductImageUpload(t *testing.T) {
	f := newFixture()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="front.png"`}
	h["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/products/p1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Test-Uid", "staff")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "png-bytes", string(f.products.uploaded))
	assert.Equal(t, "image/png", f.products.ctype)

	req = httptest.NewRequest(http.MethodPut, "/products/p1/image", strings.NewReader("jpeg-bytes"))
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("X-Test-Uid", "staff")
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", f.products.ctype)

	req = httptest.NewRequest(http.MethodPut, "/products/p1/image", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Test-Uid", "staff")
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestConsoleOrders(t *testing.T) {
	f := newFixture()

	rec := f.send(t, http.MethodGet, "/orders?status=Pending,paid&userId=u1", "staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []orderdom.Status{orderdom.StatusPending, orderdom.StatusPaid}, f.orders.lastList.Statuses)
	assert.Equal(t, "u1", f.orders.lastList.UserID)

	assert.Equal(t, http.StatusBadRequest, f.send(t, http.MethodGet, "/orders?status=lost", "staff", nil).Code)
	assert.Equal(t, http.StatusOK, f.send(t, http.MethodGet, "/orders/o1", "staff", nil).Code)

	rec = f.send(t, http.MethodPatch, "/orders/o1", "staff", map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.send(t, http.MethodPatch, "/orders/o1", "staff", map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orderdom.StatusPaid, f.orders.order.Status)
}

func TestConsoleUsersAndBrands(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusOK, f.send(t, http.MethodPatch, "/users/u1", "staff", map[string]any{"role": "admin"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.send(t, http.MethodPatch, "/users/u1", "staff", map[string]any{"role": "root"}).Code)
	assert.Equal(t, http.StatusNotFound, f.send(t, http.MethodGet, "/users/u9", "staff", nil).Code)

	rec := f.send(t, http.MethodGet, "/brands", "staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, f.send(t, http.MethodPost, "/brands", "staff", map[string]any{"id": "x"}).Code)
	assert.Equal(t, http.StatusCreated, f.send(t, http.MethodPost, "/brands", "staff", map[string]any{"id": "apple", "name": "Apple"}).Code)
}
