// internal/adapters/in/http/console/handler/order_handler.go
package consoleHandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	orderdom "phonemall/internal/domain/order"
)

type OrderService interface {
	List(ctx context.Context, f orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error)
	Get(ctx context.Context, id, requesterID string, admin bool) (orderdom.Order, error)
	UpdateStatus(ctx context.Context, id string, next orderdom.Status) (orderdom.Order, error)
}

// OrderHandler lets staff browse orders and move them through fulfilment.
type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// GET /console/orders?userId=&status=paid,shipped&page=&perPage=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := orderdom.Filter{UserID: strings.TrimSpace(q.Get("userId"))}
	for _, s := range splitCSV(q.Get("status")) {
		st := orderdom.Status(strings.ToLower(s))
		if !st.Valid() {
			writeErr(w, r, http.StatusBadRequest, "invalid status: "+s)
			return
		}
		f.Statuses = append(f.Statuses, st)
	}

	res, err := h.uc.List(r.Context(), f, pageFromQuery(r))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// GET /console/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.Get(r.Context(), chi.URLParam(r, "id"), "", true)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, o)
}

// PATCH /console/orders/{id} {status}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.uc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), orderdom.Status(body.Status))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, o)
}
