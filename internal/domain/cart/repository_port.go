package cart

import (
	"context"
	"errors"
)

// ErrStaleWrite is returned by an AccountStore when the incoming cart's
// version is older than the one already stored.
var ErrStaleWrite = errors.New("cart: stale write")

// AccountStore persists one cart per signed-in account.
//
// Storage (Firestore):
//   - collection: carts
//   - docId: account id (Firebase uid)
//   - fields: lines, version, updatedAt, expiresAt
type AccountStore interface {
	// ReadCart returns an empty cart (not an error) when none is stored.
	ReadCart(ctx context.Context, accountID string) (Cart, error)

	// WriteCart overwrites the stored cart unless c.Version is older than the
	// stored version, in which case it returns ErrStaleWrite.
	WriteCart(ctx context.Context, accountID string, c Cart) error

	// ClearCart empties the stored lines. The stored version is kept.
	ClearCart(ctx context.Context, accountID string) error
}
