// Package cartstore holds the working cart for one storefront session and
// reconciles it between session-local storage and the signed-in account.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"phonemall/internal/application/notify"
	"phonemall/internal/domain/cart"
	"phonemall/internal/domain/product"
)

const DefaultRemoteTimeout = 10 * time.Second

type Deps struct {
	Local    LocalStore
	Remote   cart.AccountStore
	Notifier notify.Notifier
	Clock    Clock
	Logger   *log.Entry

	// LocalKey is the key the cart is mirrored under in Local.
	LocalKey string

	// RemoteTimeout bounds each remote read or write.
	RemoteTimeout time.Duration

	// QuietMissingRemove suppresses the removal notification when
	// RemoveFromCart finds nothing to remove.
	QuietMissingRemove bool
}

// Store is the single source of truth for one session's cart.
// All methods are safe for concurrent use.
type Store struct {
	local    LocalStore
	remote   cart.AccountStore
	notifier notify.Notifier
	clock    Clock
	logger   *log.Entry
	key      string
	timeout  time.Duration
	quiet    bool

	writer *remoteWriter

	mu          sync.Mutex
	cart        cart.Cart
	identity    Identity
	initialized bool
	closed      bool

	// remoteSynced is set once the account cart has been read; remote
	// writes are held back until then.
	remoteSynced bool
}

func New(d Deps) *Store {
	if d.Notifier == nil {
		d.Notifier = notify.Discard
	}
	if d.Clock == nil {
		d.Clock = systemClock{}
	}
	if d.Logger == nil {
		d.Logger = log.WithField("component", "cart_store")
	}
	if d.LocalKey == "" {
		d.LocalKey = "cart"
	}
	if d.RemoteTimeout <= 0 {
		d.RemoteTimeout = DefaultRemoteTimeout
	}

	s := &Store{
		local:    d.Local,
		remote:   d.Remote,
		notifier: d.Notifier,
		clock:    d.Clock,
		logger:   d.Logger,
		key:      d.LocalKey,
		timeout:  d.RemoteTimeout,
		quiet:    d.QuietMissingRemove,
		cart:     cart.Cart{Lines: []cart.CartLine{}},
	}
	if d.Remote != nil {
		s.writer = newRemoteWriter(d.Remote, d.RemoteTimeout, d.Logger, s.reloadAfterStale)
	}
	return s
}

// ============================================================
// Initialization
// ============================================================

// Sync runs the initialization protocol for id. It is a no-op while id is
// unresolved and when the store is already synced for the same account.
//
//   - signed in, remote non-empty: the remote cart replaces the working cart
//   - signed in, remote empty: the local cart is adopted and pushed remotely
//   - anonymous: the local cart is adopted
//
// If the remote read fails the local cart is used, remote writes stay off,
// and the next Sync for the account reads again.
func (s *Store) Sync(ctx context.Context, id Identity) {
	if !id.Resolved {
		return
	}

	s.mu.Lock()
	if s.closed || s.syncedLocked(id) {
		s.mu.Unlock()
		return
	}
	prev := s.identity.AccountID
	if !s.initialized || prev != id.AccountID {
		s.cart = s.loadLocalLocked(ctx)
	}
	s.identity = id
	s.initialized = true
	s.remoteSynced = false

	if !id.SignedIn() || s.remote == nil {
		s.logger.WithFields(log.Fields{"lines": len(s.cart.Lines), "from": prev}).Debug("cart initialized from local storage")
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	remote, err := s.remote.ReadCart(rctx, id.AccountID)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.identity.AccountID != id.AccountID || s.remoteSynced {
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("account", id.AccountID).Warn("remote cart read failed; keeping local cart")
		return
	}
	s.remoteSynced = true

	switch {
	case !remote.IsEmpty():
		s.cart = remote
		s.saveLocalLocked(ctx)
		s.logger.WithFields(log.Fields{"account": id.AccountID, "lines": len(remote.Lines)}).Info("adopted remote cart")
	case !s.cart.IsEmpty():
		merged := remote
		merged.Replace(s.cart, s.clock.Now())
		s.cart = merged
		s.saveLocalLocked(ctx)
		s.queueWriteLocked(&writeJob{accountID: id.AccountID, cart: merged.Clone()})
		s.logger.WithFields(log.Fields{"account": id.AccountID, "lines": len(merged.Lines)}).Info("pushed local cart to account")
	default:
		s.cart = remote
		if s.cart.Lines == nil {
			s.cart.Lines = []cart.CartLine{}
		}
	}
}

// syncedLocked reports whether Sync has nothing left to do for id.
func (s *Store) syncedLocked(id Identity) bool {
	if !s.initialized || s.identity.AccountID != id.AccountID {
		return false
	}
	return s.remoteSynced || !id.SignedIn() || s.remote == nil
}

// Initialized reports whether Sync has completed for some resolved identity.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Identity returns the identity the store last synced to.
func (s *Store) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Store) loadLocalLocked(ctx context.Context) cart.Cart {
	empty := cart.Cart{Lines: []cart.CartLine{}}
	if s.local == nil {
		return empty
	}
	raw, ok, err := s.local.Get(ctx, s.key)
	if err != nil {
		s.logger.WithError(err).Warn("local cart read failed")
		return empty
	}
	if !ok {
		return empty
	}
	c, err := cart.Decode(raw)
	if err != nil {
		s.logger.WithError(err).Warn("local cart unreadable; starting empty")
		return empty
	}
	return c
}

// ============================================================
// Mutations
// ============================================================

// AddToCart adds quantity units of p. A zero quantity means one.
func (s *Store) AddToCart(ctx context.Context, p product.Product, quantity int, size, color string) error {
	if quantity == 0 {
		quantity = 1
	}
	line := cart.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageRef:  p.ImageRef,
		Size:      size,
		Color:     color,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.cart.Add(line, quantity, s.clock.Now())
	if err != nil {
		return err
	}
	s.persistLocked(ctx)

	if existed {
		s.notifier.Notify("Cart updated", fmt.Sprintf("%s quantity increased by %d", p.Name, quantity), notify.SeveritySuccess)
	} else {
		s.notifier.Notify("Item added", fmt.Sprintf("%s added to your cart", p.Name), notify.SeveritySuccess)
	}
	return nil
}

// UpdateQuantity sets the line's quantity exactly; a quantity below one
// removes the line. It reports whether the line existed.
func (s *Store) UpdateQuantity(ctx context.Context, k cart.LineKey, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.SetQuantity(k, quantity, s.clock.Now()) {
		return false
	}
	s.persistLocked(ctx)
	return true
}

// RemoveFromCart deletes the line with key k and reports whether it existed.
// The removal notification is sent either way unless the store was built
// with QuietMissingRemove.
func (s *Store) RemoveFromCart(ctx context.Context, k cart.LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.cart.Remove(k, s.clock.Now())
	if removed {
		s.persistLocked(ctx)
	} else {
		s.logger.WithField("productId", k.ProductID).Debug("remove: line not in cart")
	}
	if removed || !s.quiet {
		s.notifier.Notify("Item removed", "The item was removed from your cart", notify.SeverityInfo)
	}
	return removed
}

// ClearCart empties the cart. When signed in the remote clear is queued and
// its failure only logged.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear(s.clock.Now())
	if s.initialized {
		s.saveLocalLocked(ctx)
		if s.remoteWritableLocked() {
			s.queueWriteLocked(&writeJob{accountID: s.identity.AccountID, kind: kindClear, cart: s.cart.Clone()})
		}
	}
	s.notifier.Notify("Cart cleared", "All items were removed from your cart", notify.SeverityInfo)
}

// SaveCartToAccount writes the cart to the account and waits for the result.
// Outcomes are reported through the notifier; the return value tells the
// caller whether the write landed. When the account cart has not been read
// yet it is read first, so a save never overwrites a cart it has not seen.
func (s *Store) SaveCartToAccount(ctx context.Context) bool {
	s.mu.Lock()
	id := s.identity
	if !id.SignedIn() || s.writer == nil {
		s.mu.Unlock()
		s.notifier.Notify("Unauthenticated", "Sign in to save your cart", notify.SeverityWarning)
		return false
	}
	synced := s.remoteSynced || s.closed
	s.mu.Unlock()

	if !synced {
		s.Sync(ctx, id)
	}

	s.mu.Lock()
	if !s.closed && (!s.remoteSynced || s.identity.AccountID != id.AccountID) {
		s.mu.Unlock()
		s.logger.WithField("account", id.AccountID).Warn("save cart to account skipped: account cart unreadable")
		s.notifier.Notify("Save failed", "Your cart could not be saved. Please try again.", notify.SeverityError)
		return false
	}
	snapshot := s.cart.Clone()
	accountID := id.AccountID
	done := s.writer.submit(&writeJob{accountID: accountID, cart: snapshot})
	s.mu.Unlock()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		s.logger.WithError(err).WithField("account", accountID).Warn("save cart to account failed")
		s.notifier.Notify("Save failed", "Your cart could not be saved. Please try again.", notify.SeverityError)
		return false
	}
	s.notifier.Notify("Cart saved", "Your cart was saved to your account", notify.SeveritySuccess)
	return true
}

// persistLocked mirrors the cart locally and queues the remote write.
// Nothing is persisted before initialization.
func (s *Store) persistLocked(ctx context.Context) {
	if !s.initialized {
		return
	}
	s.saveLocalLocked(ctx)
	if s.remoteWritableLocked() {
		s.queueWriteLocked(&writeJob{accountID: s.identity.AccountID, cart: s.cart.Clone()})
	}
}

func (s *Store) remoteWritableLocked() bool {
	return s.identity.SignedIn() && s.writer != nil && s.remoteSynced
}

// queueWriteLocked hands j to the writer. Once the store is closed the
// write is dropped and only the local mirror keeps the change.
func (s *Store) queueWriteLocked(j *writeJob) {
	if s.closed {
		s.logger.WithFields(log.Fields{"account": j.accountID, "version": j.cart.Version}).Warn("cart store closed; remote write dropped")
		return
	}
	s.writer.submit(j)
}

func (s *Store) saveLocalLocked(ctx context.Context) {
	if s.local == nil {
		return
	}
	raw, err := cart.Encode(s.cart)
	if err == nil {
		err = s.local.Set(ctx, s.key, raw)
	}
	if err != nil {
		s.logger.WithError(err).Warn("local cart write failed")
	}
}

// reloadAfterStale runs on the writer goroutine when the account holds a
// newer cart than the one we tried to write.
func (s *Store) reloadAfterStale(accountID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	remote, err := s.remote.ReadCart(ctx, accountID)
	if err != nil {
		s.logger.WithError(err).WithField("account", accountID).Warn("reload after stale write failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.identity.AccountID != accountID || remote.Version < s.cart.Version {
		return
	}
	s.cart = remote
	if s.cart.Lines == nil {
		s.cart.Lines = []cart.CartLine{}
	}
	s.saveLocalLocked(ctx)
	s.notifier.Notify("Cart refreshed", "Your cart was updated from another device", notify.SeverityInfo)
}

// ============================================================
// Reads
// ============================================================

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []cart.CartLine {
	return s.Snapshot().Lines
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

func (s *Store) Snapshot() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// ============================================================
// Lifecycle
// ============================================================

// Close flushes any queued remote write and stops the writer.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.writer == nil {
		return nil
	}
	if err := s.writer.close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("cartstore: close: %w", err)
	}
	return nil
}
