// internal/adapters/in/http/mall/handler/me_handler.go
package mallHandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"phonemall/internal/application/usecase"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	userdom "phonemall/internal/domain/user"
)

type UserBootstrapper interface {
	Bootstrap(ctx context.Context, uid, email, displayName string) (userdom.User, error)
}

type Checkouter interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (orderdom.Order, error)
}

type OrderReader interface {
	ListByUser(ctx context.Context, userID string, page common.Page) (orderdom.PageResult, error)
	Get(ctx context.Context, id, requesterID string, admin bool) (orderdom.Order, error)
}

// MeHandler serves the signed-in customer's endpoints under /mall/me.
// Routes are mounted behind RequireUser.
type MeHandler struct {
	users    UserBootstrapper
	checkout Checkouter
	orders   OrderReader
	sessions SessionRegistry
	images   ImageResolver
}

func NewMeHandler(users UserBootstrapper, checkout Checkouter, orders OrderReader, sessions SessionRegistry, images ImageResolver) *MeHandler {
	return &MeHandler{users: users, checkout: checkout, orders: orders, sessions: sessions, images: images}
}

// POST /mall/me/sign-in {displayName?}
//
// Upserts the user record and merges the session cart with the account cart.
func (h *MeHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)

	var body struct {
		DisplayName string `json:"displayName"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeErr(w, r, http.StatusBadRequest, "invalid json")
			return
		}
	}
	name := body.DisplayName
	if name == "" {
		name = p.Name
	}

	u, err := h.users.Bootstrap(r.Context(), p.UID, p.Email, name)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	sess, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"user": u,
		"cart": buildCartDTO(r.Context(), sess, h.images),
	})
}

// POST /mall/me/checkout {shipping: {...}}
func (h *MeHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)

	var body struct {
		Shipping orderdom.ShippingSnapshot `json:"shipping"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	sess, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	o, err := h.checkout.Checkout(r.Context(), usecase.CheckoutInput{
		UserID:   p.UID,
		Email:    p.Email,
		Shipping: body.Shipping,
		Lines:    sess.Store.Lines(),
	})
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	sess.Store.ClearCart(r.Context())
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"order": o,
		"cart":  buildCartDTO(r.Context(), sess, h.images),
	})
}

// GET /mall/me/orders?page=&perPage=
func (h *MeHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	res, err := h.orders.ListByUser(r.Context(), p.UID, pageFromQuery(r))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// GET /mall/me/orders/{id}
func (h *MeHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := principal(r)
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"), p.UID, false)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, o)
}
