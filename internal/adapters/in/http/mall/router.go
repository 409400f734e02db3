// internal/adapters/in/http/mall/router.go
package mall

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mallHandler "phonemall/internal/adapters/in/http/mall/handler"
	"phonemall/internal/adapters/in/http/middleware"
)

// Deps is the buyer-facing handler set.
type Deps struct {
	Catalog *mallHandler.CatalogHandler
	Cart    *mallHandler.CartHandler
	Me      *mallHandler.MeHandler
}

// NewRouter builds the /mall subtree. The caller mounts it and installs
// the Identity and Session middleware upstream.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	if h := deps.Catalog; h != nil {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)
		r.Get("/brands", h.ListBrands)
	}

	if h := deps.Cart; h != nil {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Clear)
			r.Post("/save", h.Save)
			r.Post("/items", h.AddItem)
			r.Put("/items", h.UpdateItem)
			r.Delete("/items", h.RemoveItem)
		})
	}

	if h := deps.Me; h != nil {
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/sign-in", h.SignIn)
			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
		})
	}

	return r
}
