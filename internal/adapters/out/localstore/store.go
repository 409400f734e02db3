// Package localstore provides the session-local key-value stores the cart
// is mirrored into.
package localstore

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// KV is what the cart store needs plus housekeeping.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Open picks a backend from dsn: empty or "memory" gives MemoryKV, anything
// else is handed to SQLite.
func Open(ctx context.Context, dsn string) (KV, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == "memory" {
		log.WithField("component", "localstore").Info("using in-memory kv")
		return NewMemory(), nil
	}
	return OpenSQLite(ctx, dsn)
}
