// Package models defines the persisted shapes of the extension's background state.
//
// The package contains two groups of types:
//
// 1. Settings: the [SettingsDocument] loaded from the synced storage area
//   - three named [Section]s (behaviour, appearance, newtab)
//   - appearance carries a nested "styles" mapping
//
// 2. Ordered collections kept in the local storage area
//   - [PinnedEntries] : promoted bookmark ids with monotonically assigned indices
//   - [Separators] : per-directory separator markers
//
// All persisted values are JSON documents addressed by a string key through the [Store] interface.
package models
