// internal/adapters/in/http/middleware/session.go
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookie = "pm_session"
	SessionHeader = "X-Session-Id"
)

type SessionOptions struct {
	TTL    time.Duration
	Secure bool
}

// Session assigns every request a cart session id. The header wins over the
// cookie; ids that are not UUIDs are replaced. A new id is returned both as
// a cookie and in the response header.
func Session(opts SessionOptions) func(http.Handler) http.Handler {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					id = strings.TrimSpace(c.Value)
				}
			}
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(opts.TTL.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, id)
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}
