package cartstore

import (
	"context"
	"time"
)

// LocalStore is the device/session-scoped key-value store the working cart
// is mirrored to after every mutation.
type LocalStore interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Identity is what the auth layer knows about the caller. Resolved=false
// means the identity is still loading and the store must not initialize.
type Identity struct {
	AccountID string
	Resolved  bool
}

func (i Identity) SignedIn() bool { return i.Resolved && i.AccountID != "" }

// Anonymous is a resolved identity with no account.
var Anonymous = Identity{Resolved: true}

// Account returns a resolved identity for accountID.
func Account(accountID string) Identity {
	return Identity{AccountID: accountID, Resolved: true}
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
