// internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"phonemall/internal/adapters/in/http/middleware"
	"phonemall/internal/application/filter"
	mallquery "phonemall/internal/application/query/mall"
	"phonemall/internal/application/usecase"
	cartdom "phonemall/internal/domain/cart"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

func writeErr(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, r, code, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return render.DecodeJSON(r.Body, v)
}

// writeDomainErr maps sentinel errors onto status codes.
func writeDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mallquery.ErrNotFound),
		errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, userdom.ErrNotFound):
		writeErr(w, r, http.StatusNotFound, "not_found")
	case errors.Is(err, filter.ErrInvalidCriteria),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, cartdom.ErrInvalidLine),
		errors.Is(err, orderdom.ErrInvalidShippingAddress),
		errors.Is(err, userdom.ErrInvalidEmail),
		errors.Is(err, userdom.ErrInvalidDisplayName),
		errors.Is(err, usecase.ErrCheckoutEmptyCart):
		writeErr(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrCheckoutUnauthenticated):
		writeErr(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		writeErr(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrProductUnavailable):
		writeErr(w, r, http.StatusConflict, err.Error())
	default:
		log.WithError(err).WithFields(log.Fields{"component": "mall_http", "path": r.URL.Path}).Error("request failed")
		writeErr(w, r, http.StatusInternalServerError, "internal_error")
	}
}

func principal(r *http.Request) (middleware.Principal, bool) {
	return middleware.PrincipalFrom(r.Context())
}

func pageFromQuery(r *http.Request) common.Page {
	q := r.URL.Query()
	n, _ := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	per, _ := strconv.Atoi(strings.TrimSpace(q.Get("perPage")))
	return common.Page{Number: n, PerPage: per}.Normalize()
}
