// Package collections manages the pinned entries and per-directory separator lists.
//
// Both collections live under a single key each in the local [models.Store]
// ("u/pinnedEntries" and "u/separators"). Every mutation loads the whole
// collection, changes it and writes it back. Mutations of the same key are
// serialized through a per-key lock so concurrent callers never lose updates;
// the lock is context-aware so a caller waiting on a busy key can give up.
//
// Pinned indices are assigned as max+1 and never renumbered on removal:
//
//	pin b  -> {b: 0}
//	pin c  -> {b: 0, c: 1}
//	unpin b
//	pin d  -> {c: 1, d: 2}
package collections
