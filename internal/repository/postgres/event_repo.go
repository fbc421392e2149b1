package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"dayplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, user_id, title, start_time, duration_minutes, priority, category,
		location, notes, reminder_minutes, repeat, repeat_until, all_day, kind, linked_event_id,
		created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (user_id, title, start_time, duration_minutes, priority, category,
			location, notes, reminder_minutes, repeat, repeat_until, all_day, kind, linked_event_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.UserID, e.Title, e.StartTime, e.DurationMinutes, e.Priority, e.Category,
		e.Location, e.Notes, e.ReminderMinutes, e.Repeat, e.RepeatUntil, e.AllDay, e.Kind, e.LinkedEventID,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func scanEvent(s interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var repeatUntil sql.NullTime
	var linkedID sql.NullString
	err := s.Scan(
		&e.ID, &e.UserID, &e.Title, &e.StartTime, &e.DurationMinutes, &e.Priority, &e.Category,
		&e.Location, &e.Notes, &e.ReminderMinutes, &e.Repeat, &repeatUntil, &e.AllDay, &e.Kind, &linkedID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if repeatUntil.Valid {
		e.RepeatUntil = &repeatUntil.Time
	}
	if linkedID.Valid {
		e.LinkedEventID = &linkedID.String
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, userID, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND user_id = $2
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListRepeatingBefore(ctx context.Context, userID string, before time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND repeat <> 'none' AND start_time < $2
			AND (repeat_until IS NULL OR repeat_until >= $2)
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $3, start_time = $4, duration_minutes = $5, priority = $6, category = $7,
			location = $8, notes = $9, reminder_minutes = $10, repeat = $11, repeat_until = $12,
			all_day = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.StartTime, e.DurationMinutes, e.Priority, e.Category,
		e.Location, e.Notes, e.ReminderMinutes, e.Repeat, e.RepeatUntil, e.AllDay, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *eventRepository) UpdateStartTime(ctx context.Context, userID, id string, newStart time.Time) error {
	query := `
		UPDATE events
		SET start_time = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, id, userID, newStart)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *eventRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// requireRowAffected maps zero-row writes to domain.ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// intSlice converts an int slice to a pq array for []int columns.
func intSlice(values []int) pq.Int64Array {
	out := make(pq.Int64Array, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

// fromInt64Array converts a scanned pq array back to []int.
func fromInt64Array(arr pq.Int64Array) []int {
	if len(arr) == 0 {
		return nil
	}
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out
}
