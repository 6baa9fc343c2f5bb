package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRuntime(t *testing.T, goos string) {
	t.Helper()
	prev := getRuntime
	getRuntime = func() string { return goos }
	t.Cleanup(func() { getRuntime = prev })
}

func TestBrowserCommand(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		goos string
		args []string
	}{
		{"darwin", []string{"open", "https://example.com"}},
		{"linux", []string{"xdg-open", "https://example.com"}},
		{"windows", []string{"cmd", "/c", "start", "https://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			withRuntime(t, tt.goos)
			cmd, err := browserCommand(ctx, "https://example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		withRuntime(t, "plan9")
		_, err := browserCommand(ctx, "https://example.com")
		assert.ErrorContains(t, err, "unsupported platform")

		assert.ErrorContains(t, OpenBrowser(ctx, "https://example.com"), "unsupported platform")
	})

	t.Run("empty url", func(t *testing.T) {
		assert.ErrorIs(t, OpenBrowser(ctx, ""), ErrMissingArgument)
	})
}
