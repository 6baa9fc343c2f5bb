package models

import "sort"

// PinnedEntry is a bookmark promoted to the pinned list.
type PinnedEntry struct {
	ID    string `json:"-"`
	Index int    `json:"index"`
}

// PinnedEntries is the persisted form of the pinned list, keyed by bookmark id.
type PinnedEntries map[string]PinnedEntry

// MaxIndex returns the highest index in the collection, or -1 when it is empty.
func (p PinnedEntries) MaxIndex() int {
	idx := -1
	for _, e := range p {
		idx = max(idx, e.Index)
	}
	return idx
}

// Sorted returns the entries ordered by index, with ids filled in.
func (p PinnedEntries) Sorted() []PinnedEntry {
	out := make([]PinnedEntry, 0, len(p))
	for id, e := range p {
		e.ID = id
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index == out[j].Index {
			return out[i].ID < out[j].ID
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Separator marks an ordinal position among a directory's children.
type Separator struct {
	Index int `json:"index"`
}

// Separators maps a directory id to its separator list. Indices may repeat within a list.
type Separators map[string][]Separator
