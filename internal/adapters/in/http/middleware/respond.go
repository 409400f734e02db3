package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"error": msg})
}
