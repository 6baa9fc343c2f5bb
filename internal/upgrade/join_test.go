package upgrade_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/bsx/internal/upgrade"
)

func TestJoin(t *testing.T) {
	t.Run("completes exactly once", func(t *testing.T) {
		j := upgrade.NewJoin(3)

		var completed atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if j.Signal() {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), completed.Load())
		assert.Equal(t, 3, j.Count())

		select {
		case <-j.Done():
		default:
			t.Fatal("join should be complete")
		}
	})

	t.Run("not complete before the threshold", func(t *testing.T) {
		j := upgrade.NewJoin(3)
		assert.False(t, j.Signal())
		assert.False(t, j.Signal())

		select {
		case <-j.Done():
			t.Fatal("join completed early")
		default:
		}

		assert.True(t, j.Signal())
		require.NoError(t, j.Wait(context.Background()))
	})

	t.Run("zero expected is already complete", func(t *testing.T) {
		j := upgrade.NewJoin(0)
		require.NoError(t, j.Wait(context.Background()))
		assert.False(t, j.Signal())
	})

	t.Run("wait honours the context", func(t *testing.T) {
		j := upgrade.NewJoin(2)
		j.Signal()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, j.Wait(ctx), context.DeadlineExceeded)
	})
}
