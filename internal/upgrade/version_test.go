package upgrade_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/bsx/internal/shared"
	"github.com/desertthunder/bsx/internal/upgrade"
)

func TestParseVersion(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := upgrade.ParseVersion("2.1.9")
		require.NoError(t, err)
		assert.Equal(t, 2, v.Major())
		assert.Equal(t, 1, v.Minor())
		assert.Equal(t, "2.1.9", v.String())
	})

	t.Run("two components", func(t *testing.T) {
		v, err := upgrade.ParseVersion("1.7")
		require.NoError(t, err)
		assert.Equal(t, upgrade.Version{1, 7}, v)
	})

	for _, in := range []string{"", "1", "1.", "a.b", "1.-2", "1.2beta", "1..2", "+1.2"} {
		t.Run("malformed "+in, func(t *testing.T) {
			_, err := upgrade.ParseVersion(in)
			assert.ErrorIs(t, err, shared.ErrMalformedVersion)
		})
	}
}

func TestClassifyUpdate(t *testing.T) {
	d := upgrade.NewDetector(nil)

	tests := []struct {
		name     string
		previous string
		current  string
		want     upgrade.Transition
	}{
		{"minor bump", "1.6.3", "1.7.0", upgrade.MinorOrMajorUpgrade},
		{"patch bump", "2.1.4", "2.1.9", upgrade.SameOrPatchUpdate},
		{"major bump", "1.18.0", "2.0", upgrade.MinorOrMajorUpgrade},
		{"same version", "1.18.0", "1.18.0", upgrade.SameOrPatchUpdate},
		{"extra components ignored", "1.2.3.4", "1.2.7.1", upgrade.SameOrPatchUpdate},
		{"downgrade still differs", "1.8", "1.7.5", upgrade.MinorOrMajorUpgrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ClassifyUpdate(tt.previous, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed previous is an upgrade", func(t *testing.T) {
		got, err := d.ClassifyUpdate("garbage", "1.7.0")
		assert.Equal(t, upgrade.MinorOrMajorUpgrade, got)
		assert.ErrorIs(t, err, shared.ErrMalformedVersion)
	})

	t.Run("malformed current is an upgrade", func(t *testing.T) {
		got, err := d.ClassifyUpdate("1.7.0", "")
		assert.Equal(t, upgrade.MinorOrMajorUpgrade, got)
		assert.ErrorIs(t, err, shared.ErrMalformedVersion)
	})
}

func TestClassifyInstall(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d := upgrade.NewDetector(func() time.Time { return now })

	assert.Equal(t, upgrade.FreshInstall, d.ClassifyInstall(time.Time{}, false))
	assert.Equal(t, upgrade.FreshInstall, d.ClassifyInstall(now.Add(-59*time.Second), true))
	assert.Equal(t, upgrade.KnownInstall, d.ClassifyInstall(now.Add(-upgrade.FreshInstallWindow), true))
	assert.Equal(t, upgrade.KnownInstall, d.ClassifyInstall(now.Add(-24*time.Hour), true))
}

func TestTransitionString(t *testing.T) {
	assert.Equal(t, "fresh_install", upgrade.FreshInstall.String())
	assert.Equal(t, "minor_or_major_upgrade", upgrade.MinorOrMajorUpgrade.String())
	assert.Equal(t, "unknown", upgrade.Transition(42).String())
}
