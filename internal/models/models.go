// package models defines the data model for the extension background layer
package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/bsx/internal/shared"
)

// Persisted store keys.
const (
	KeyBehaviour        = "behaviour"
	KeyAppearance       = "appearance"
	KeyNewtab           = "newtab"
	KeyPinnedEntries    = "u/pinnedEntries"
	KeySeparators       = "u/separators"
	KeyLanguageInfos    = "languageInfos"
	KeyInstallationDate = "installationDate"
	KeyLastReload       = "lastReload"
)

// Store is the persisted key-value substrate shared by the lifecycle and collection layers.
//
// Values are JSON documents. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error) // Get returns the raw value for key and whether it exists
	All(ctx context.Context) (map[string][]byte, error)        // All returns every key in the store
	Set(ctx context.Context, key string, value []byte) error   // Set replaces the value stored under key
	Remove(ctx context.Context, keys ...string) error          // Remove deletes keys; absent keys are ignored
}

// GetJSON decodes the value stored under key into dst and reports whether the key existed.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %w", shared.ErrCorruptData, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
