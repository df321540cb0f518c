package session

import (
	"context"
	"sync"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func (k *keyedLock) acquire(id string) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[id]
	if !ok {
		entry = &lockEntry{}
		k.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release drops the entry once nobody holds or waits on it.
func (k *keyedLock) release(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(k.locks, id)
	}
}

func (k *keyedLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// withLock runs fn while holding the lock for id.
func (k *keyedLock) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := k.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		k.release(id)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
