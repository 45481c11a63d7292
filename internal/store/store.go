package store

import (
	"context"
	"strconv"
	"sync"
)

// IdentityStore maps real connection addresses to anonymized identity tokens
// (ipids). A token is stable for a given address for the lifetime of the store.
type IdentityStore interface {
	// IPID returns the token for addr, assigning a new one on first sight.
	IPID(ctx context.Context, addr string) (string, error)

	// Close releases underlying resources.
	Close() error
}

// MemoryIdentities is an IdentityStore that lives only in process memory.
type MemoryIdentities struct {
	mu   sync.Mutex
	next int64
	ids  map[string]string
}

// NewMemoryIdentities creates an empty in-memory identity store.
func NewMemoryIdentities() *MemoryIdentities {
	return &MemoryIdentities{ids: make(map[string]string)}
}

// IPID returns the token for addr.
func (m *MemoryIdentities) IPID(_ context.Context, addr string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.ids[addr]; ok {
		return id, nil
	}
	id := strconv.FormatInt(m.next, 10)
	m.next++
	m.ids[addr] = id
	return id, nil
}

// Close is a no-op.
func (m *MemoryIdentities) Close() error { return nil }
