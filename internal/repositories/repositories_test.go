package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, shared.RunMigrations(context.Background(), db), "failed to run migrations")
	return db
}

func TestKVRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t), AreaSync)

		_, ok, err := repo.Get(ctx, models.KeyBehaviour)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.Set(ctx, models.KeyBehaviour, []byte(`{"a":1}`)))
		require.NoError(t, repo.Set(ctx, models.KeyBehaviour, []byte(`{"a":2}`)))

		raw, ok, err := repo.Get(ctx, models.KeyBehaviour)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"a":2}`, string(raw))
	})

	t.Run("areas are isolated", func(t *testing.T) {
		db := setupTestDB(t)
		local := NewKVRepository(db, AreaLocal)
		remote := NewKVRepository(db, AreaSync)

		require.NoError(t, local.Set(ctx, models.KeyLanguageInfos, []byte(`{}`)))

		_, ok, err := remote.Get(ctx, models.KeyLanguageInfos)
		require.NoError(t, err)
		assert.False(t, ok)

		all, err := local.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
		assert.Equal(t, AreaLocal, local.Area())
	})

	t.Run("Remove ignores absent keys", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t), AreaLocal)
		require.NoError(t, repo.Set(ctx, models.KeyLanguageInfos, []byte(`{"de":{}}`)))

		require.NoError(t, repo.Remove(ctx, models.KeyLanguageInfos, "missing"))
		require.NoError(t, repo.Remove(ctx))

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("concurrent writers to distinct keys", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t), AreaSync)

		var wg sync.WaitGroup
		for _, key := range models.SectionNames {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				assert.NoError(t, repo.Set(ctx, key, []byte(`{}`)))
			}(key)
		}
		wg.Wait()

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("closed database", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		require.NoError(t, err)
		db.Close()

		repo := NewKVRepository(db, AreaSync)
		_, _, err = repo.Get(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, repo.Set(ctx, "k", []byte(`1`)))
	})
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create assigns id and sequence", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))

		first := &models.LifecycleEvent{Kind: models.EventInstalled, CurrentVersion: "1.0.0", Transition: "fresh_install"}
		second := &models.LifecycleEvent{
			Kind:            models.EventUpdated,
			PreviousVersion: "1.6.3",
			CurrentVersion:  "1.7.0",
			Transition:      "minor_or_major_upgrade",
			AppliedRules:    []string{"remove-obsolete-keys", "normalize-icon-color"},
			FailedSections:  []string{"newtab"},
			ErrorMessage:    "boom",
		}

		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.NotEmpty(t, first.ID)
		assert.Equal(t, 1, first.Sequence)
		assert.Equal(t, 2, second.Sequence)

		got, err := repo.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "1.6.3", got.PreviousVersion)
		assert.Equal(t, second.AppliedRules, got.AppliedRules)
		assert.Equal(t, []string{"newtab"}, got.FailedSections)
		assert.Nil(t, got.FailedRules)
		assert.True(t, got.Failed())
	})

	t.Run("List orders newest first and filters", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		for _, kind := range []string{models.EventInstalled, models.EventUpdated, models.EventUpdated} {
			require.NoError(t, repo.Create(ctx, &models.LifecycleEvent{Kind: kind, CurrentVersion: "2.0", Transition: "x"}))
		}

		all, err := repo.List(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, 3, all[0].Sequence)

		updates, err := repo.List(ctx, models.EventUpdated, 1)
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, models.EventUpdated, updates[0].Kind)
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		_, err := repo.Get(ctx, "nope")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("Create rejects invalid event", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		err := repo.Create(ctx, &models.LifecycleEvent{Kind: "rebooted", CurrentVersion: "1", Transition: "x"})
		assert.Error(t, err)
	})
}
