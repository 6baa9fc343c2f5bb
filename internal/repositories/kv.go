package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/bsx/internal/models"
)

// Storage areas kept in the kv_store table.
const (
	AreaLocal = "local"
	AreaSync  = "sync"
)

// KVRepository implements [models.Store] over one area of the kv_store table.
type KVRepository struct {
	db   *sql.DB
	area string
}

// NewKVRepository creates a [KVRepository] for the given area.
func NewKVRepository(db *sql.DB, area string) *KVRepository {
	return &KVRepository{db: db, area: area}
}

// Area returns the storage area this repository reads and writes.
func (r *KVRepository) Area() string { return r.area }

// Get returns the value stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE area = ? AND key = ?", r.area, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query %s/%s: %w", r.area, key, err)
	}
	return []byte(value), true, nil
}

// All returns every key in the area.
func (r *KVRepository) All(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM kv_store WHERE area = ?", r.area)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s area: %w", r.area, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		out[key] = []byte(value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

// Set upserts the value stored under key.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (area, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(area, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, r.area, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", r.area, key, err)
	}
	return nil
}

// Remove deletes the given keys in a single transaction.
func (r *KVRepository) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv_store WHERE area = ? AND key = ?", r.area, key); err != nil {
			return fmt.Errorf("failed to remove %s/%s: %w", r.area, key, err)
		}
	}

	return tx.Commit()
}

var _ models.Store = (*KVRepository)(nil)
