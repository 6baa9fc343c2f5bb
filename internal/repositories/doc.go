// Package repositories implements persistence for the extension's storage areas and lifecycle history.
//
// Key Implementations:
//   - [KVRepository] : SQLite-backed [models.Store] for one storage area ("local" or "sync")
//   - [DynamoStore] : DynamoDB-backed [models.Store], an optional remote home for the "sync" area
//   - [EventRepository] : Lifecycle event history with sequence numbers
//
// Sequence numbers provide stable, human-readable ordering (event #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
