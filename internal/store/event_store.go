package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pvesely/webplanner/internal/model"
)

// validateEvent applies the shared create/update checks for events.
func validateEvent(upd *EventUpdate) error {
	upd.Title = strings.TrimSpace(upd.Title)
	if upd.Title == "" {
		return fmt.Errorf("event title must not be empty")
	}
	if upd.StartAt.IsZero() {
		return fmt.Errorf("event start must not be empty")
	}
	if upd.EndAt != nil && upd.StartAt.After(*upd.EndAt) {
		return fmt.Errorf("event end must not be before start")
	}
	return nil
}

// GetEvents retrieves the owner's events ordered by start time.
func (s *SQLiteStore) GetEvents(
	ctx context.Context,
	ownerID string,
) ([]model.Event, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, user_id, title, start_at, end_at, all_day, created_at
		FROM events WHERE user_id = ? ORDER BY start_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// CreateEvent inserts a new calendar event for the owner.
func (s *SQLiteStore) CreateEvent(
	ctx context.Context,
	ownerID string,
	upd EventUpdate,
) (model.Event, error) {
	if err := validateEvent(&upd); err != nil {
		return model.Event{}, err
	}

	event := model.Event{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     upd.Title,
		StartAt:   upd.StartAt.UTC(),
		AllDay:    upd.AllDay,
		CreatedAt: time.Now().UTC(),
	}
	if upd.EndAt != nil {
		t := upd.EndAt.UTC()
		event.EndAt = &t
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, start_at, end_at, all_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Title, event.StartAt, event.EndAt,
		boolToInt(event.AllDay), event.CreatedAt,
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}

	return event, nil
}

// UpdateEvent replaces an event's fields, scoped to its owner.
func (s *SQLiteStore) UpdateEvent(
	ctx context.Context,
	ownerID, id string,
	upd EventUpdate,
) error {
	if err := validateEvent(&upd); err != nil {
		return err
	}

	var endAt *time.Time
	if upd.EndAt != nil {
		t := upd.EndAt.UTC()
		endAt = &t
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE events SET title = ?, start_at = ?, end_at = ?, all_day = ?
		WHERE id = ? AND user_id = ?`,
		upd.Title, upd.StartAt.UTC(), endAt, boolToInt(upd.AllDay),
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating event %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEvent removes an event scoped to its owner.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM events WHERE id = ? AND user_id = ?", id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanEvent scans an event row from a sqlx.Rows result set.
func scanEvent(rows *sqlx.Rows) (model.Event, error) {
	var (
		event  model.Event
		allDay int
	)

	err := rows.Scan(
		&event.ID, &event.UserID, &event.Title,
		&event.StartAt, &event.EndAt, &allDay, &event.CreatedAt,
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("scanning event row: %w", err)
	}

	event.AllDay = allDay != 0
	return event, nil
}
