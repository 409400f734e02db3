// internal/adapters/in/http/console/router.go
package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	consoleHandler "phonemall/internal/adapters/in/http/console/handler"
	"phonemall/internal/adapters/in/http/middleware"
)

// Deps is the back-office handler set. Admins is consulted when the caller's
// token does not carry the admin claim.
type Deps struct {
	Admins     middleware.AdminLookup
	Products   *consoleHandler.ProductHandler
	Categories *consoleHandler.CategoryHandler
	Brands     *consoleHandler.BrandHandler
	Orders     *consoleHandler.OrderHandler
	Users      *consoleHandler.UserHandler
}

// NewRouter builds the /console subtree. Every route requires an admin.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequireAdmin(deps.Admins))

	if h := deps.Products; h != nil {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Put("/{id}/image", h.UploadImage)
		})
	}

	if h := deps.Categories; h != nil {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}

	if h := deps.Brands; h != nil {
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	}

	if h := deps.Orders; h != nil {
		r.Get("/orders", h.List)
		r.Get("/orders/{id}", h.Get)
		r.Patch("/orders/{id}", h.UpdateStatus)
	}

	if h := deps.Users; h != nil {
		r.Get("/users", h.List)
		r.Get("/users/{id}", h.Get)
		r.Patch("/users/{id}", h.SetRole)
	}

	return r
}
