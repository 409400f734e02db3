package cartstore

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"phonemall/internal/application/notify"
	"phonemall/internal/domain/cart"
)

const (
	DefaultSessionTTL    = 2 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

// Session is one browser session's cart plus the notifications it has not
// yet picked up.
type Session struct {
	ID      string
	Store   *Store
	Notices *notify.Queue

	lastSeen time.Time
}

type RegistryConfig struct {
	Local         LocalStore
	Remote        cart.AccountStore
	Clock         Clock
	Logger        *log.Entry
	SessionTTL    time.Duration
	RemoteTimeout time.Duration

	QuietMissingRemove bool
}

// Registry owns one Store per session id. Stores are created on first use
// and closed after SessionTTL without a request.
type Registry struct {
	cfg RegistryConfig

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.WithField("component", "cart_registry")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Registry{cfg: cfg, sessions: map[string]*Session{}}
}

// Get returns the session for id, creating it if needed.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	now := r.cfg.Clock.Now()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		return s, nil
	}

	logger := r.cfg.Logger.WithField("session", id)
	queue := notify.NewQueue(notify.DefaultQueueSize)
	store := New(Deps{
		Local:              r.cfg.Local,
		Remote:             r.cfg.Remote,
		Notifier:           notify.Fanout{queue, notify.LogNotifier{Entry: logger}},
		Clock:              r.cfg.Clock,
		Logger:             logger.WithField("component", "cart_store"),
		LocalKey:           "cart:" + id,
		RemoteTimeout:      r.cfg.RemoteTimeout,
		QuietMissingRemove: r.cfg.QuietMissingRemove,
	})
	s := &Session{ID: id, Store: store, Notices: queue, lastSeen: now}
	r.sessions[id] = s
	logger.Debug("cart session opened")
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were evicted. Their local mirror survives, so a returning session
// rebuilds the same cart.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.cfg.Clock.Now().Add(-r.cfg.SessionTTL)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	if err := closeAll(ctx, idle); err != nil {
		r.cfg.Logger.WithError(err).Warn("closing idle cart sessions")
	}
	if len(idle) > 0 {
		r.cfg.Logger.WithField("evicted", len(idle)).Info("evicted idle cart sessions")
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(ctx)
		}
	}
}

// Close closes every store, flushing queued remote writes.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()

	return closeAll(ctx, all)
}

func closeAll(ctx context.Context, sessions []*Session) error {
	var g errgroup.Group
	for _, s := range sessions {
		s := s
		g.Go(func() error { return s.Store.Close(ctx) })
	}
	return g.Wait()
}
