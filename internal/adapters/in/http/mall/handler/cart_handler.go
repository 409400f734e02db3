// internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"phonemall/internal/adapters/in/http/middleware"
	"phonemall/internal/application/cartstore"
	"phonemall/internal/application/notify"
	cartdom "phonemall/internal/domain/cart"
	productdom "phonemall/internal/domain/product"
)

// SessionRegistry hands out the per-session cart store.
type SessionRegistry interface {
	Get(id string) (*cartstore.Session, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
}

type ImageResolver interface {
	Resolve(ctx context.Context, ref string) string
}

// CartHandler serves /mall/cart. Every request first runs the cart store's
// initialization protocol for the caller's current identity.
type CartHandler struct {
	sessions SessionRegistry
	products ProductGetter
	images   ImageResolver
}

func NewCartHandler(sessions SessionRegistry, products ProductGetter, images ImageResolver) *CartHandler {
	return &CartHandler{sessions: sessions, products: products, images: images}
}

// ============================================================
// DTOs
// ============================================================

type cartLineDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

type cartDTO struct {
	Lines         []cartLineDTO         `json:"lines"`
	Count         int                   `json:"count"`
	Subtotal      float64               `json:"subtotal"`
	Version       int64                 `json:"version"`
	SignedIn      bool                  `json:"signedIn"`
	Notifications []notify.Notification `json:"notifications"`
}

type lineRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  *int   `json:"quantity"`
}

func (l lineRequest) key() cartdom.LineKey {
	return cartdom.LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// ============================================================
// Handlers
// ============================================================

// GET /mall/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeCart(w, r, http.StatusOK, sess)
}

// POST /mall/cart/items {productId, quantity?, size?, color?}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	id := strings.TrimSpace(req.ProductID)
	if id == "" {
		writeErr(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	if !p.Active {
		writeErr(w, r, http.StatusNotFound, "not_found")
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := sess.Store.AddToCart(r.Context(), p, qty, req.Size, req.Color); err != nil {
		writeDomainErr(w, r, err)
		return
	}
	h.writeCart(w, r, http.StatusOK, sess)
}

// PUT /mall/cart/items {productId, size?, color?, quantity}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || req.Quantity == nil {
		writeErr(w, r, http.StatusBadRequest, "productId and quantity are required")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Store.UpdateQuantity(r.Context(), req.key(), *req.Quantity)
	h.writeCart(w, r, http.StatusOK, sess)
}

// DELETE /mall/cart/items?productId=&size=&color=
// A JSON body with the same fields is accepted too.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := lineRequest{ProductID: q.Get("productId"), Size: q.Get("size"), Color: q.Get("color")}
	if strings.TrimSpace(req.ProductID) == "" && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, r, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeErr(w, r, http.StatusBadRequest, "productId is required")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Store.RemoveFromCart(r.Context(), req.key())
	h.writeCart(w, r, http.StatusOK, sess)
}

// DELETE /mall/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Store.ClearCart(r.Context())
	h.writeCart(w, r, http.StatusOK, sess)
}

// POST /mall/cart/save
func (h *CartHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Store.SaveCartToAccount(r.Context())
	h.writeCart(w, r, http.StatusOK, sess)
}

// ============================================================
// helpers
// ============================================================

// session resolves the caller's cart session and syncs it with the
// caller's identity.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*cartstore.Session, bool) {
	return resolveSession(w, r, h.sessions)
}

func resolveSession(w http.ResponseWriter, r *http.Request, reg SessionRegistry) (*cartstore.Session, bool) {
	sess, err := openSession(r, reg)
	if err != nil {
		if errors.Is(err, cartstore.ErrClosed) {
			writeErr(w, r, http.StatusServiceUnavailable, "shutting down")
			return nil, false
		}
		writeErr(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return sess, true
}

func openSession(r *http.Request, reg SessionRegistry) (*cartstore.Session, error) {
	sid := middleware.SessionIDFrom(r.Context())
	if sid == "" {
		return nil, errors.New("missing session")
	}
	sess, err := reg.Get(sid)
	if err != nil {
		return nil, err
	}
	id := cartstore.Anonymous
	if p, ok := principal(r); ok {
		id = cartstore.Account(p.UID)
	}
	sess.Store.Sync(r.Context(), id)
	return sess, nil
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, code int, sess *cartstore.Session) {
	writeJSON(w, r, code, buildCartDTO(r.Context(), sess, h.images))
}

func buildCartDTO(ctx context.Context, sess *cartstore.Session, images ImageResolver) cartDTO {
	snap := sess.Store.Snapshot()
	out := cartDTO{
		Lines:         make([]cartLineDTO, 0, len(snap.Lines)),
		Count:         snap.Count(),
		Subtotal:      roundCents(snap.Subtotal()),
		Version:       snap.Version,
		SignedIn:      sess.Store.Identity().SignedIn(),
		Notifications: sess.Notices.Drain(),
	}
	if out.Notifications == nil {
		out.Notifications = []notify.Notification{}
	}
	for _, l := range snap.Lines {
		img := l.ImageRef
		if images != nil && img != "" {
			img = images.Resolve(ctx, img)
		}
		out.Lines = append(out.Lines, cartLineDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			LineTotal: roundCents(l.LineTotal()),
			Image:     img,
			Size:      l.Size,
			Color:     l.Color,
		})
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
