// internal/adapters/in/http/console/handler/user_handler.go
package consoleHandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	userdom "phonemall/internal/domain/user"
)

type UserService interface {
	List(ctx context.Context, f userdom.Filter, page userdom.Page) (userdom.PageResult, error)
	GetByID(ctx context.Context, id string) (userdom.User, error)
	SetRole(ctx context.Context, id string, role userdom.Role) (userdom.User, error)
}

type UserHandler struct {
	uc UserService
}

func NewUserHandler(uc UserService) *UserHandler {
	return &UserHandler{uc: uc}
}

// GET /console/users?role=&email=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := userdom.Filter{
		Role:  userdom.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
		Email: strings.TrimSpace(q.Get("email")),
	}
	res, err := h.uc.List(r.Context(), f, pageFromQuery(r))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

// PATCH /console/users/{id} {role}
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.uc.SetRole(r.Context(), chi.URLParam(r, "id"), userdom.Role(body.Role))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}
