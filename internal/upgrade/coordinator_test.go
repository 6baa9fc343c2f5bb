package upgrade_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
	tu "github.com/desertthunder/bsx/internal/testing"
	"github.com/desertthunder/bsx/internal/upgrade"
)

// cancelOnSet cancels the caller's context from inside the write of one key,
// after every other write has landed.
type cancelOnSet struct {
	*tu.MemoryStore
	key    string
	others int
	cancel context.CancelFunc
}

func (s *cancelOnSet) Set(ctx context.Context, key string, value []byte) error {
	if key == s.key {
		deadline := time.Now().Add(2 * time.Second)
		for s.Writes() < s.others && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		s.cancel()
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestCoordinator(t *testing.T) {
	ctx := context.Background()

	t.Run("persists all three sections", func(t *testing.T) {
		mem := tu.NewMemoryStore()
		c := upgrade.NewCoordinator(mem, nil)

		doc := models.NewSettingsDocument()
		doc.Behaviour["openAction"] = "mousedown"

		result, err := c.Persist(ctx, doc)
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, []string{models.KeyAppearance, models.KeyBehaviour, models.KeyNewtab}, result.Succeeded)
		assert.NoError(t, result.Err())

		raw, ok, err := mem.Get(ctx, models.KeyBehaviour)
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"openAction":"mousedown"}`, string(raw))

		raw, _, _ = mem.Get(ctx, models.KeyAppearance)
		var appearance map[string]any
		require.NoError(t, json.Unmarshal(raw, &appearance))
		assert.Contains(t, appearance, "styles")
	})

	t.Run("one failing section still joins and is named", func(t *testing.T) {
		mem := tu.NewMemoryStore()
		c := upgrade.NewCoordinator(tu.NewFailingStore(mem, models.KeyAppearance), nil)

		result, err := c.Persist(ctx, models.NewSettingsDocument())
		require.NoError(t, err)

		assert.False(t, result.OK())
		assert.Equal(t, []string{models.KeyAppearance}, result.FailedSections())
		assert.Equal(t, []string{models.KeyBehaviour, models.KeyNewtab}, result.Succeeded)
		assert.ErrorIs(t, result.Err(), shared.ErrPersistence)
		assert.ErrorIs(t, result.Err(), tu.ErrWriteFailed)
		assert.Equal(t, 2, mem.Writes())
	})

	t.Run("every section failing", func(t *testing.T) {
		store := tu.NewFailingStore(tu.NewMemoryStore(), models.SectionNames...)
		result, err := upgrade.NewCoordinator(store, nil).Persist(ctx, models.NewSettingsDocument())
		require.NoError(t, err)
		assert.Empty(t, result.Succeeded)
		assert.Len(t, result.Failed, 3)
	})

	t.Run("unencodable section is reported", func(t *testing.T) {
		c := upgrade.NewCoordinator(tu.NewMemoryStore(), nil)

		result, err := c.PersistSections(ctx, map[string]any{
			"good": map[string]any{"a": 1},
			"bad":  make(chan int),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"bad"}, result.FailedSections())
		assert.Equal(t, []string{"good"}, result.Succeeded)
	})

	t.Run("cancelled context dispatches nothing", func(t *testing.T) {
		mem := tu.NewMemoryStore()
		c := upgrade.NewCoordinator(mem, nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := c.Persist(cancelled, models.NewSettingsDocument())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
		assert.Zero(t, mem.Writes())
	})

	t.Run("cancellation during writes still commits every section", func(t *testing.T) {
		running, cancel := context.WithCancel(ctx)
		defer cancel()
		store := &cancelOnSet{MemoryStore: tu.NewMemoryStore(), key: models.KeyAppearance, others: 2, cancel: cancel}

		result, err := upgrade.NewCoordinator(store, nil).Persist(running, models.NewSettingsDocument())
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, []string{models.KeyAppearance, models.KeyBehaviour, models.KeyNewtab}, result.Succeeded)
		assert.Equal(t, 3, store.Writes())
		assert.ErrorIs(t, running.Err(), context.Canceled)
	})

	t.Run("no sections completes immediately", func(t *testing.T) {
		result, err := upgrade.NewCoordinator(tu.NewMemoryStore(), nil).PersistSections(ctx, nil)
		require.NoError(t, err)
		assert.True(t, result.OK())
	})
}
