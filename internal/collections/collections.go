package collections

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// Store is the ordered collection store over a [models.Store].
type Store struct {
	store  models.Store
	locks  *keyLock
	logger *log.Logger
}

// New returns a Store over s. A nil logger discards output.
func New(s models.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Store{store: s, locks: newKeyLock(), logger: logger}
}

// PinEntry pins id with index max+1, or 0 when nothing is pinned.
//
// Pinning an already pinned id moves it to the end.
func (s *Store) PinEntry(ctx context.Context, id string) (models.PinnedEntry, error) {
	if id == "" {
		return models.PinnedEntry{}, fmt.Errorf("%w: entry id", shared.ErrMissingArgument)
	}

	var pinned models.PinnedEntry
	err := s.mutate(ctx, models.KeyPinnedEntries, func() (any, error) {
		entries, err := s.loadPinned(ctx)
		if err != nil {
			return nil, err
		}
		pinned = models.PinnedEntry{ID: id, Index: entries.MaxIndex() + 1}
		entries[id] = pinned
		return entries, nil
	})
	if err != nil {
		return models.PinnedEntry{}, err
	}

	s.logger.Debug("entry pinned", "id", id, "index", pinned.Index)
	return pinned, nil
}

// UnpinEntry removes id from the pinned list. Unknown ids are a no-op.
// Remaining indices are left untouched.
func (s *Store) UnpinEntry(ctx context.Context, id string) error {
	return s.mutate(ctx, models.KeyPinnedEntries, func() (any, error) {
		entries, err := s.loadPinned(ctx)
		if err != nil {
			return nil, err
		}
		delete(entries, id)
		return entries, nil
	})
}

// PinnedEntries returns the pinned list ordered by index.
func (s *Store) PinnedEntries(ctx context.Context) ([]models.PinnedEntry, error) {
	entries, err := s.loadPinned(ctx)
	if err != nil {
		return nil, err
	}
	return entries.Sorted(), nil
}

// AddSeparator appends a separator at index to parentID's list.
func (s *Store) AddSeparator(ctx context.Context, parentID string, index int) error {
	if parentID == "" {
		return fmt.Errorf("%w: parent id", shared.ErrMissingArgument)
	}
	if index < 0 {
		return fmt.Errorf("%w: negative separator index %d", shared.ErrInvalidArgument, index)
	}

	return s.mutate(ctx, models.KeySeparators, func() (any, error) {
		all, err := s.loadSeparators(ctx)
		if err != nil {
			return nil, err
		}
		all[parentID] = append(all[parentID], models.Separator{Index: index})
		return all, nil
	})
}

// RemoveSeparator removes the first separator of parentID's list at index.
// Nothing changes when no separator matches; the collection is still written back.
func (s *Store) RemoveSeparator(ctx context.Context, parentID string, index int) error {
	return s.mutate(ctx, models.KeySeparators, func() (any, error) {
		all, err := s.loadSeparators(ctx)
		if err != nil {
			return nil, err
		}

		list := all[parentID]
		for i, sep := range list {
			if sep.Index == index {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if list != nil {
			all[parentID] = list
		}
		return all, nil
	})
}

// Separators returns parentID's separator list in insertion order.
func (s *Store) Separators(ctx context.Context, parentID string) ([]models.Separator, error) {
	all, err := s.loadSeparators(ctx)
	if err != nil {
		return nil, err
	}
	list := all[parentID]
	if list == nil {
		list = []models.Separator{}
	}
	return list, nil
}

// AllSeparators returns every directory's separator list.
func (s *Store) AllSeparators(ctx context.Context) (models.Separators, error) {
	return s.loadSeparators(ctx)
}

// mutate runs one read-modify-write cycle on key while holding its lock.
func (s *Store) mutate(ctx context.Context, key string, fn func() (any, error)) error {
	unlock, err := s.locks.lock(ctx, key)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", key, err)
	}
	defer unlock()

	value, err := fn()
	if err != nil {
		return err
	}

	if err := models.SetJSON(ctx, s.store, key, value); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
	}
	return nil
}

func (s *Store) loadPinned(ctx context.Context) (models.PinnedEntries, error) {
	entries := models.PinnedEntries{}
	if _, err := models.GetJSON(ctx, s.store, models.KeyPinnedEntries, &entries); err != nil {
		return nil, fmt.Errorf("failed to load pinned entries: %w", err)
	}
	if entries == nil {
		entries = models.PinnedEntries{}
	}
	return entries, nil
}

func (s *Store) loadSeparators(ctx context.Context) (models.Separators, error) {
	all := models.Separators{}
	if _, err := models.GetJSON(ctx, s.store, models.KeySeparators, &all); err != nil {
		return nil, fmt.Errorf("failed to load separators: %w", err)
	}
	if all == nil {
		all = models.Separators{}
	}
	return all, nil
}
