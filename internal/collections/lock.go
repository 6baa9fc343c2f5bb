package collections

import (
	"context"
	"sync"
)

// keyLock hands out one context-aware mutex per key.
type keyLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[string]chan struct{})}
}

func (l *keyLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

// lock blocks until key is free or ctx is done. The returned func releases the key.
func (l *keyLock) lock(ctx context.Context, key string) (func(), error) {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
