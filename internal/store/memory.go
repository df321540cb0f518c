package store

import (
	"context"
	"sync"
	"time"
)

type history struct {
	turns   []Turn
	touched time.Time
}

// MemoryStore keeps histories in process memory. Idle histories are dropped
// lazily on access and by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*history
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a memory store. A ttl of zero keeps histories
// until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*history),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) ([]Turn, error) {
	m.mu.RLock()
	h, ok := m.sessions[id]
	if ok && !expired(h.touched, m.ttl, m.now()) {
		turns := make([]Turn, len(h.turns))
		copy(turns, h.turns)
		m.mu.RUnlock()
		return turns, nil
	}
	m.mu.RUnlock()

	if ok {
		m.mu.Lock()
		if h, ok := m.sessions[id]; ok && expired(h.touched, m.ttl, m.now()) {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Append(_ context.Context, id string, turns ...Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	h, ok := m.sessions[id]
	if !ok || expired(h.touched, m.ttl, now) {
		h = &history{}
		m.sessions[id] = h
	}
	h.turns = append(h.turns, turns...)
	h.touched = now
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops every expired history and returns how many were removed.
func (m *MemoryStore) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, h := range m.sessions {
		if expired(h.touched, m.ttl, now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live histories.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
