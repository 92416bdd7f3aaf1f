package session

import (
	"context"
	"sync"
)

type memoryEntry struct {
	token string
	roles []byte
}

// MemoryStore is an in-process [Backend]. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Put(_ context.Context, id, token string, roles []byte) error {
	if id == "" {
		return ErrNoSessionID
	}
	if token == "" {
		return ErrEmptyToken
	}

	cp := append([]byte(nil), roles...)

	m.mu.Lock()
	m.entries[id] = memoryEntry{token: token, roles: cp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (string, []byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return "", nil, false, nil
	}
	return e.token, append([]byte(nil), e.roles...), true, nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
