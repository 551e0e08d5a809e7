package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chronolog/internal/model"
)

type StopwatchRepository struct {
	db *sql.DB
}

func NewStopwatchRepository(db *sql.DB) *StopwatchRepository {
	return &StopwatchRepository{db: db}
}

func (r *StopwatchRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *StopwatchRepository) Create(ctx context.Context, watch *model.Stopwatch) error {
	var lapValue, lapUnit interface{}
	if watch.Lap != nil {
		lapValue = watch.Lap.Value
		lapUnit = watch.Lap.Unit
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO stopwatches (id, user_id, name, lap_value, lap_unit, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		watch.ID,
		watch.UserID,
		watch.Name,
		lapValue,
		lapUnit,
		watch.CreatedAt.UTC().Format(time.RFC3339Nano),
		watch.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create stopwatch: %w", err)
	}
	return nil
}

func (r *StopwatchRepository) Get(ctx context.Context, id string) (*model.Stopwatch, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, name, lap_value, lap_unit, created_at, updated_at
		 FROM stopwatches WHERE id = ?`,
		id,
	)
	return scanStopwatch(row)
}

func (r *StopwatchRepository) GetTx(ctx context.Context, tx *sql.Tx, id string) (*model.Stopwatch, error) {
	row := tx.QueryRowContext(
		ctx,
		`SELECT id, user_id, name, lap_value, lap_unit, created_at, updated_at
		 FROM stopwatches WHERE id = ?`,
		id,
	)
	return scanStopwatch(row)
}

func (r *StopwatchRepository) List(ctx context.Context, userID string) ([]model.Stopwatch, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, name, lap_value, lap_unit, created_at, updated_at
		 FROM stopwatches
		 WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stopwatches: %w", err)
	}
	defer rows.Close()

	watches := make([]model.Stopwatch, 0)
	for rows.Next() {
		watch, scanErr := scanStopwatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		watches = append(watches, *watch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stopwatches: %w", err)
	}
	return watches, nil
}

func (r *StopwatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE stopwatch_id = ?`, id); err != nil {
		return fmt.Errorf("delete group memberships: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stopwatch_events WHERE stopwatch_id = ?`, id); err != nil {
		return fmt.Errorf("delete stopwatch events: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stopwatches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete stopwatch: %w", err)
	}
	return nil
}

// ListEvents loads the event sequence in insertion order.
func (r *StopwatchRepository) ListEvents(ctx context.Context, stopwatchID string) ([]model.Event, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, type, title, description, timestamp, unit_value, unit_label, created_at, updated_at
		 FROM stopwatch_events
		 WHERE stopwatch_id = ?
		 ORDER BY position ASC`,
		stopwatchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		event, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ListEventsTx loads the event sequence in insertion order inside an open
// transaction. The pool is capped at one connection, so queries issued while
// a transaction is open must go through it.
func (r *StopwatchRepository) ListEventsTx(ctx context.Context, tx *sql.Tx, stopwatchID string) ([]model.Event, error) {
	rows, err := tx.QueryContext(
		ctx,
		`SELECT id, type, title, description, timestamp, unit_value, unit_label, created_at, updated_at
		 FROM stopwatch_events
		 WHERE stopwatch_id = ?
		 ORDER BY position ASC`,
		stopwatchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		event, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReplaceEventsTx rewrites the stored sequence to match the given one and
// touches the stopwatch's updated_at. The sequence is the source of truth
// after every controller operation, so a full rewrite keeps positions dense
// no matter whether events were appended, removed or cleared.
func (r *StopwatchRepository) ReplaceEventsTx(ctx context.Context, tx *sql.Tx, stopwatchID string, events []model.Event, now time.Time) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM stopwatch_events WHERE stopwatch_id = ?`, stopwatchID); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	for position, event := range events {
		var unitValue, unitLabel interface{}
		if event.Unit != nil {
			unitValue = event.Unit.Value
			unitLabel = event.Unit.Unit
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO stopwatch_events (
				id, stopwatch_id, position, type, title, description,
				timestamp, unit_value, unit_label, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID,
			stopwatchID,
			position,
			string(event.Type),
			event.Title,
			event.Description,
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			unitValue,
			unitLabel,
			event.Metadata.CreatedAt.UTC().Format(time.RFC3339Nano),
			event.Metadata.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	_, err := tx.ExecContext(
		ctx,
		`UPDATE stopwatches SET updated_at = ? WHERE id = ?`,
		now.UTC().Format(time.RFC3339Nano),
		stopwatchID,
	)
	if err != nil {
		return fmt.Errorf("touch stopwatch: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStopwatch(s scanner) (*model.Stopwatch, error) {
	watch := model.Stopwatch{}
	var lapValue sql.NullFloat64
	var lapUnit sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&watch.ID,
		&watch.UserID,
		&watch.Name,
		&lapValue,
		&lapUnit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan stopwatch: %w", err)
	}

	if lapValue.Valid {
		watch.Lap = &model.UnitValue{Value: lapValue.Float64, Unit: lapUnit.String}
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse stopwatch created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse stopwatch updated_at: %w", err)
	}
	watch.CreatedAt = parsedCreatedAt
	watch.UpdatedAt = parsedUpdatedAt
	return &watch, nil
}

func scanEvent(s scanner) (*model.Event, error) {
	event := model.Event{}
	var eventType string
	var description sql.NullString
	var timestamp string
	var unitValue sql.NullFloat64
	var unitLabel sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&event.ID,
		&eventType,
		&event.Title,
		&description,
		&timestamp,
		&unitValue,
		&unitLabel,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	event.Type = model.EventType(eventType)
	if description.Valid {
		event.Description = description.String
	}
	if unitValue.Valid {
		event.Unit = &model.UnitValue{Value: unitValue.Float64, Unit: unitLabel.String}
	}

	parsedTimestamp, err := parseTime(timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse event timestamp: %w", err)
	}
	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse event created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse event updated_at: %w", err)
	}
	event.Timestamp = parsedTimestamp
	event.Metadata = model.Metadata{CreatedAt: parsedCreatedAt, UpdatedAt: parsedUpdatedAt}
	return &event, nil
}
