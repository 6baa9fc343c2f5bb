package upgrade

import (
	"context"
	"sync"
)

// Join completes once a fixed number of completion signals have arrived.
//
// It completes exactly once; signals past the expected count are ignored.
type Join struct {
	mu       sync.Mutex
	expected int
	count    int
	done     chan struct{}
}

// NewJoin returns a Join waiting for expected signals. A non-positive count is already complete.
func NewJoin(expected int) *Join {
	j := &Join{expected: expected, done: make(chan struct{})}
	if expected <= 0 {
		close(j.done)
	}
	return j
}

// Signal records one completion and reports whether it was the one that completed the join.
func (j *Join) Signal() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.count >= j.expected {
		return false
	}
	j.count++
	if j.count == j.expected {
		close(j.done)
		return true
	}
	return false
}

// Done is closed when the join completes.
func (j *Join) Done() <-chan struct{} {
	return j.done
}

// Count returns how many signals have been accepted.
func (j *Join) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Wait blocks until the join completes or ctx is done.
func (j *Join) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
