package cartstore

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"phonemall/internal/domain/cart"
)

var ErrClosed = errors.New("cartstore: closed")

type writeKind int

const (
	kindWrite writeKind = iota
	kindClear
)

type writeJob struct {
	accountID string
	kind      writeKind
	cart      cart.Cart
	waiters   []chan error
}

// remoteWriter owns the single in-flight remote write for one Store.
// Jobs for the same account collapse into the newest one while queued, so a
// burst of mutations produces at most one write behind the one in flight.
type remoteWriter struct {
	remote  cart.AccountStore
	timeout time.Duration
	logger  *log.Entry
	onStale func(accountID string)

	mu      sync.Mutex
	queue   []*writeJob
	closed  bool
	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func newRemoteWriter(remote cart.AccountStore, timeout time.Duration, logger *log.Entry, onStale func(string)) *remoteWriter {
	w := &remoteWriter{
		remote:  remote,
		timeout: timeout,
		logger:  logger,
		onStale: onStale,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// submit queues j and returns a channel that receives the outcome of the
// write that ends up carrying j's state.
func (w *remoteWriter) submit(j *writeJob) <-chan error {
	ch := make(chan error, 1)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		ch <- ErrClosed
		return ch
	}
	j.waiters = append(j.waiters, ch)
	if n := len(w.queue); n > 0 && w.queue[n-1].accountID == j.accountID {
		j.waiters = append(w.queue[n-1].waiters, j.waiters...)
		w.queue[n-1] = j
	} else {
		w.queue = append(w.queue, j)
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return ch
}

func (w *remoteWriter) pop() *writeJob {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return nil
	}
	j := w.queue[0]
	w.queue = w.queue[1:]
	return j
}

func (w *remoteWriter) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *remoteWriter) drain() {
	for j := w.pop(); j != nil; j = w.pop() {
		err := w.exec(j)
		for _, ch := range j.waiters {
			ch <- err
		}
	}
}

func (w *remoteWriter) exec(j *writeJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	var err error
	switch j.kind {
	case kindClear:
		err = w.remote.ClearCart(ctx, j.accountID)
	default:
		err = w.remote.WriteCart(ctx, j.accountID, j.cart)
	}

	entry := w.logger.WithField("account", j.accountID)
	switch {
	case err == nil:
		entry.WithField("version", j.cart.Version).Debug("remote cart write ok")
	case errors.Is(err, cart.ErrStaleWrite):
		entry.WithField("version", j.cart.Version).Warn("remote cart is newer; dropping local write")
		if w.onStale != nil {
			w.onStale(j.accountID)
		}
	default:
		entry.WithError(err).Warn("remote cart write failed")
	}
	return err
}

// close stops accepting jobs, flushes what is queued and waits for the
// worker to exit or ctx to end.
func (w *remoteWriter) close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
