// internal/adapters/in/http/console/handler/helpers.go
package consoleHandler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"phonemall/internal/application/usecase"
	branddom "phonemall/internal/domain/brand"
	categorydom "phonemall/internal/domain/category"
	common "phonemall/internal/domain/common"
	orderdom "phonemall/internal/domain/order"
	productdom "phonemall/internal/domain/product"
	userdom "phonemall/internal/domain/user"
)

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

// writeDomainErr maps domain and usecase errors onto status codes.
func writeDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, categorydom.ErrNotFound),
		errors.Is(err, branddom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, userdom.ErrNotFound):
		writeErr(w, r, http.StatusNotFound, "not_found")

	case errors.Is(err, productdom.ErrConflict),
		errors.Is(err, categorydom.ErrConflict),
		errors.Is(err, branddom.ErrConflict),
		errors.Is(err, orderdom.ErrConflict),
		errors.Is(err, orderdom.ErrInvalidTransition):
		writeErr(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, productdom.ErrInvalidID),
		errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrInvalidStock),
		errors.Is(err, productdom.ErrInvalidCondition),
		errors.Is(err, categorydom.ErrInvalidID),
		errors.Is(err, categorydom.ErrInvalidName),
		errors.Is(err, categorydom.ErrInvalidSlug),
		errors.Is(err, branddom.ErrInvalidID),
		errors.Is(err, branddom.ErrInvalidName),
		errors.Is(err, branddom.ErrInvalidURL),
		errors.Is(err, orderdom.ErrInvalidStatus),
		errors.Is(err, userdom.ErrInvalidRole):
		writeErr(w, r, http.StatusBadRequest, err.Error())

	case errors.Is(err, usecase.ErrImageStoreMissing):
		writeErr(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		log.WithError(err).WithFields(log.Fields{"component": "console_http", "path": r.URL.Path}).Error("request failed")
		writeErr(w, r, http.StatusInternalServerError, "internal_error")
	}
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// splitCSV parses "a,b,c" / "a, b, c"; empty items are dropped.
func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func pageFromQuery(r *http.Request) common.Page {
	q := r.URL.Query()
	return common.Page{
		Number:  parseIntDefault(q.Get("page"), 1),
		PerPage: parseIntDefault(q.Get("perPage"), common.DefaultPerPage),
	}.Normalize()
}
