// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	log "github.com/sirupsen/logrus"
)

// TokenVerifier is satisfied by *firebaseauth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AdminLookup decides admin access for callers without the admin claim.
type AdminLookup interface {
	IsAdmin(ctx context.Context, uid string) bool
}

// Identity verifies an optional Firebase ID token.
//   - no Authorization header: anonymous, request continues
//   - malformed or invalid token: 401
//   - verifier not configured: tokens are ignored and every caller is anonymous
func Identity(verifier TokenVerifier) func(http.Handler) http.Handler {
	logger := log.WithField("component", "auth")
	if verifier == nil {
		logger.Warn("firebase auth not configured; all requests are anonymous")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeError(w, r, http.StatusUnauthorized, "unauthorized: malformed bearer token")
				return
			}

			tok, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil || tok == nil || strings.TrimSpace(tok.UID) == "" {
				logger.WithError(err).Debug("id token rejected")
				writeError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			p := Principal{
				UID:   strings.TrimSpace(tok.UID),
				Email: claimString(tok.Claims, "email"),
				Name:  claimString(tok.Claims, "name"),
			}
			if v, ok := tok.Claims["admin"].(bool); ok {
				p.Admin = v
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireUser rejects anonymous callers with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeError(w, r, http.StatusUnauthorized, "sign-in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows callers with the admin claim, or whose user record
// has the admin role. Anonymous callers get 401, others 403.
func RequireAdmin(lookup AdminLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "sign-in required")
				return
			}
			if !p.Admin && (lookup == nil || !lookup.IsAdmin(r.Context(), p.UID)) {
				writeError(w, r, http.StatusForbidden, "admin only")
				return
			}
			if !p.Admin {
				p.Admin = true
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
