// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	cartdom "phonemall/internal/domain/cart"
)

// CartRepositoryFS implements cart.AccountStore using Firestore.
//
// Collection design:
//   - collection: carts
//   - docId: account id (Firebase uid)
//   - fields: lines(array), version, createdAt, updatedAt, expiresAt
//
// TTL:
//   - Configure Firestore TTL on "expiresAt".
type CartRepositoryFS struct {
	Client *firestore.Client
	TTL    time.Duration
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client, TTL: cartdom.DefaultCartTTL}
}

var _ cartdom.AccountStore = (*CartRepositoryFS)(nil)

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

func (r *CartRepositoryFS) ref(accountID string) (*firestore.DocumentRef, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(accountID)
	if id == "" {
		return nil, errors.New("cart_repository_fs: accountID is empty")
	}
	return r.col().Doc(id), nil
}

// ReadCart returns an empty cart when the document does not exist.
func (r *CartRepositoryFS) ReadCart(ctx context.Context, accountID string) (cartdom.Cart, error) {
	ref, err := r.ref(accountID)
	if err != nil {
		return cartdom.Cart{}, err
	}
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		return cartdom.Cart{Lines: []cartdom.CartLine{}}, nil
	}
	if err != nil {
		return cartdom.Cart{}, err
	}
	return cartFromData(snap.Data()), nil
}

// WriteCart overwrites the document inside a transaction and rejects carts
// older than the stored version.
func (r *CartRepositoryFS) WriteCart(ctx context.Context, accountID string, c cartdom.Cart) error {
	ref, err := r.ref(accountID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdAt := now
		snap, err := tx.Get(ref)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			data := snap.Data()
			if stored := asInt64(data["version"]); c.Version < stored {
				return cartdom.ErrStaleWrite
			}
			if t, ok := asTime(data["createdAt"]); ok {
				createdAt = t
			}
		}
		return tx.Set(ref, cartDocFromDomain(c, createdAt, now, r.ttl()))
	})
}

// ClearCart empties lines and keeps the stored version, creating an empty
// document when none exists.
func (r *CartRepositoryFS) ClearCart(ctx context.Context, accountID string) error {
	ref, err := r.ref(accountID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "lines", Value: []cartLineDoc{}},
		{Path: "updatedAt", Value: now},
		{Path: "expiresAt", Value: now.Add(r.ttl())},
	})
	if isNotFound(err) {
		_, err = ref.Set(ctx, cartDocFromDomain(cartdom.Cart{}, now, now, r.ttl()))
	}
	return err
}

func (r *CartRepositoryFS) ttl() time.Duration {
	if r.TTL <= 0 {
		return cartdom.DefaultCartTTL
	}
	return r.TTL
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Lines     []cartLineDoc `firestore:"lines"`
	Version   int64         `firestore:"version"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
	ExpiresAt time.Time     `firestore:"expiresAt"`
}

type cartLineDoc struct {
	ProductID string  `firestore:"productId"`
	Name      string  `firestore:"name"`
	Price     float64 `firestore:"price"`
	Quantity  int     `firestore:"quantity"`
	ImageRef  string  `firestore:"image"`
	Size      string  `firestore:"size"`
	Color     string  `firestore:"color"`
}

func cartDocFromDomain(c cartdom.Cart, createdAt, now time.Time, ttl time.Duration) cartDoc {
	lines := make([]cartLineDoc, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineDoc(l))
	}
	return cartDoc{
		Lines:     lines,
		Version:   c.Version,
		CreatedAt: createdAt,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// cartFromData parses document data with backward compatibility.
//
// Supported shapes:
//  1. lines: [{productId, name, price, quantity, image, size, color}]
//  2. items: map[productId] = qty (legacy; name/price are re-read at checkout)
func cartFromData(data map[string]any) cartdom.Cart {
	c := cartdom.Cart{Version: asInt64(data["version"])}
	if t, ok := asTime(data["updatedAt"]); ok {
		c.UpdatedAt = t
	}

	var lines []cartdom.CartLine
	if raw, ok := data["lines"].([]any); ok {
		for _, x := range raw {
			m, ok := x.(map[string]any)
			if !ok {
				continue
			}
			price, _ := asFloat(m["price"])
			lines = append(lines, cartdom.CartLine{
				ProductID: asString(m["productId"]),
				Name:      asString(m["name"]),
				Price:     price,
				Quantity:  asInt(m["quantity"]),
				ImageRef:  asString(m["image"]),
				Size:      asString(m["size"]),
				Color:     asString(m["color"]),
			})
		}
	} else if items, ok := data["items"].(map[string]any); ok {
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, cartdom.CartLine{ProductID: k, Quantity: asInt(items[k])})
		}
	}

	c.Lines = cartdom.Normalize(lines)
	return c
}
