package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded carts in process memory. It goes through the
// same envelope encoding as RedisStore.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, owner string) (Snapshot, error) {
	m.mu.RLock()
	data, ok := m.carts[Key(owner)]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return decode(data)
}

func (m *MemoryStore) Save(_ context.Context, owner string, snapshot Snapshot) error {
	data, err := encode(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[Key(owner)] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, owner string) error {
	m.mu.Lock()
	delete(m.carts, Key(owner))
	m.mu.Unlock()
	return nil
}
