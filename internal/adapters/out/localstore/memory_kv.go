package localstore

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryKV is the in-process store used when no LOCAL_CART_DSN is set.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memEntry
}

func NewMemory() *MemoryKV {
	return &MemoryKV{data: map[string]memEntry{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	return e.value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memEntry{value: value, updatedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Prune(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.data {
		if e.updatedAt.Before(before) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryKV) Close() error { return nil }
