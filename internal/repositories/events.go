package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/bsx/internal/models"
	"github.com/desertthunder/bsx/internal/shared"
)

// EventRepository persists [models.LifecycleEvent] history.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new [EventRepository] with the given database connection
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts the event with a generated ID and sequence.
func (r *EventRepository) Create(ctx context.Context, event *models.LifecycleEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "lifecycle_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	event.ID = shared.GenerateID()
	event.Sequence = sequence
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO lifecycle_events (
			id, sequence, kind, previous_version, current_version, transition,
			applied_rules, failed_rules, failed_sections, error_message, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.Sequence,
		event.Kind,
		nullable(event.PreviousVersion),
		event.CurrentVersion,
		event.Transition,
		nullable(joinList(event.AppliedRules)),
		nullable(joinList(event.FailedRules)),
		nullable(joinList(event.FailedSections)),
		nullable(event.ErrorMessage),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lifecycle event: %w", err)
	}

	return nil
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.LifecycleEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEvents+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query lifecycle event: %w", err)
	}
	events, err := r.scanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: lifecycle event %s", shared.ErrNotFound, id)
	}
	return events[0], nil
}

// List returns the most recent events first. A non-positive limit returns every event.
func (r *EventRepository) List(ctx context.Context, kind string, limit int) ([]*models.LifecycleEvent, error) {
	query := selectEvents
	args := []any{}

	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lifecycle events: %w", err)
	}
	return r.scanAll(rows)
}

const selectEvents = `
	SELECT
		id, sequence, kind, previous_version, current_version, transition,
		applied_rules, failed_rules, failed_sections, error_message, created_at
	FROM lifecycle_events`

func (r *EventRepository) scanAll(rows *sql.Rows) ([]*models.LifecycleEvent, error) {
	defer rows.Close()

	var events []*models.LifecycleEvent
	for rows.Next() {
		var (
			e                              models.LifecycleEvent
			previous, applied, failedRules sql.NullString
			failedSections, errorMessage   sql.NullString
		)

		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Kind, &previous, &e.CurrentVersion, &e.Transition,
			&applied, &failedRules, &failedSections, &errorMessage, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lifecycle event: %w", err)
		}

		e.PreviousVersion = previous.String
		e.AppliedRules = splitList(applied)
		e.FailedRules = splitList(failedRules)
		e.FailedSections = splitList(failedSections)
		e.ErrorMessage = errorMessage.String

		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	return strings.Split(s.String, ",")
}
