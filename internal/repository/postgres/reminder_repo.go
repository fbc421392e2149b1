package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"dayplanner/internal/domain"
)

type reminderRepository struct {
	DB *sql.DB
}

func NewReminderRepository(db *sql.DB) domain.ReminderRepository {
	return &reminderRepository{
		DB: db,
	}
}

const reminderColumns = `id, user_id, title, description, type, time_of_day, repeat, repeat_days,
		priority, is_active, next_trigger, last_triggered, created_at, updated_at`

func (r *reminderRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	query := `
		INSERT INTO reminders (user_id, title, description, type, time_of_day, repeat, repeat_days,
			priority, is_active, next_trigger, last_triggered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rem.UserID, rem.Title, rem.Description, rem.Type, rem.TimeOfDay, rem.Repeat, intSlice(rem.RepeatDays),
		rem.Priority, rem.IsActive, rem.NextTrigger, rem.LastTriggered, rem.CreatedAt, rem.UpdatedAt,
	).Scan(&rem.ID)
}

func scanReminder(s interface{ Scan(dest ...any) error }) (*domain.Reminder, error) {
	rem := &domain.Reminder{}
	var repeatDays pq.Int64Array
	var next, last sql.NullTime
	err := s.Scan(
		&rem.ID, &rem.UserID, &rem.Title, &rem.Description, &rem.Type, &rem.TimeOfDay, &rem.Repeat, &repeatDays,
		&rem.Priority, &rem.IsActive, &next, &last, &rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rem.RepeatDays = fromInt64Array(repeatDays)
	if next.Valid {
		rem.NextTrigger = &next.Time
	}
	if last.Valid {
		rem.LastTriggered = &last.Time
	}
	return rem, nil
}

func (r *reminderRepository) GetByID(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE id = $1 AND user_id = $2
	`
	rem, err := scanReminder(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rem, nil
}

func (r *reminderRepository) ListActive(ctx context.Context, userID string) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = $1 AND is_active
		ORDER BY next_trigger ASC NULLS LAST
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReminders(rows)
}

func (r *reminderRepository) ListTriggeredInRange(ctx context.Context, from, to time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE is_active AND next_trigger >= $1 AND next_trigger < $2
		ORDER BY next_trigger ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReminders(rows)
}

func (r *reminderRepository) Update(ctx context.Context, rem *domain.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $3, description = $4, type = $5, time_of_day = $6, repeat = $7, repeat_days = $8,
			priority = $9, is_active = $10, next_trigger = $11, last_triggered = $12, updated_at = $13
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		rem.ID, rem.UserID, rem.Title, rem.Description, rem.Type, rem.TimeOfDay, rem.Repeat, intSlice(rem.RepeatDays),
		rem.Priority, rem.IsActive, rem.NextTrigger, rem.LastTriggered, rem.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *reminderRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func collectReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	reminders := make([]*domain.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}
