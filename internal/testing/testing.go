// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// ErrWriteFailed is returned by [FailingStore] for the keys it is told to fail.
var ErrWriteFailed = errors.New("write failed")

// MemoryStore is an in-memory [models.Store].
//
// Delay is slept between reading and returning a value, which widens
// the window for interleaving concurrent read-modify-write cycles.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	Delay  time.Duration
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	v, ok := m.data[key]
	m.mu.RUnlock()

	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	return v, ok, nil
}

func (m *MemoryStore) All(ctx context.Context) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Writes returns the number of successful Set calls.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// FailingStore wraps a [models.Store] and fails Set for selected keys.
type FailingStore struct {
	models.Store
	fail map[string]bool
}

func NewFailingStore(inner models.Store, keys ...string) *FailingStore {
	fail := make(map[string]bool, len(keys))
	for _, k := range keys {
		fail[k] = true
	}
	return &FailingStore{Store: inner, fail: fail}
}

func (f *FailingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.fail[key] {
		return ErrWriteFailed
	}
	return f.Store.Set(ctx, key, value)
}

// FakeHost is a test double for [upgrade.Host]
type FakeHost struct {
	Language  string
	Agent     string
	BaseURL   string
	ReinitErr error
	ReloadErr error

	mu            sync.Mutex
	reinitialized int
	reloaded      int
}

func (h *FakeHost) Reinitialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reinitialized++
	return h.ReinitErr
}

func (h *FakeHost) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloaded++
	return h.ReloadErr
}

func (h *FakeHost) UILanguage() string { return h.Language }
func (h *FakeHost) UserAgent() string  { return h.Agent }

func (h *FakeHost) ExtensionURL(path string) string {
	base := h.BaseURL
	if base == "" {
		base = "chrome-extension://test"
	}
	return base + "/" + path
}

func (h *FakeHost) Reinitialized() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reinitialized
}

func (h *FakeHost) Reloaded() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reloaded
}

// RecordingTracker is a test double for [upgrade.Tracker]
type RecordingTracker struct {
	mu     sync.Mutex
	Events []upgrade.Event
	Err    error
}

func (t *RecordingTracker) Track(ctx context.Context, event upgrade.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Events = append(t.Events, event)
	return t.Err
}

// RecordingLinks is a test double for [upgrade.LinkOpener]
type RecordingLinks struct {
	mu     sync.Mutex
	Opened []upgrade.LinkOptions
	Err    error
}

func (l *RecordingLinks) OpenLink(ctx context.Context, opts upgrade.LinkOptions) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Opened = append(l.Opened, opts)
	return l.Err
}

// RecordingHistory is a test double for [upgrade.EventRecorder]
type RecordingHistory struct {
	mu     sync.Mutex
	Events []*models.LifecycleEvent
	Err    error
}

func (r *RecordingHistory) Create(ctx context.Context, event *models.LifecycleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return r.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
