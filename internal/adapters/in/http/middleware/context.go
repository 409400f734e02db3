// internal/adapters/in/http/middleware/context.go
package middleware

import (
	"context"
	"strings"
)

type ctxKey int

const (
	ctxKeyPrincipal ctxKey = iota
	ctxKeySession
)

// Principal is the verified caller. A zero UID means anonymous.
type Principal struct {
	UID   string
	Email string
	Name  string
	// Admin is true when the ID token carries the admin custom claim.
	Admin bool
}

func (p Principal) SignedIn() bool { return strings.TrimSpace(p.UID) != "" }

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFrom returns the caller. ok is false for anonymous requests.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, _ := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, p.SignedIn()
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySession, id)
}

func SessionIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeySession).(string)
	return s
}
