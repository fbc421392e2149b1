package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"dayplanner/internal/domain"
)

type habitRepository struct {
	DB *sql.DB
}

func NewHabitRepository(db *sql.DB) domain.HabitRepository {
	return &habitRepository{
		DB: db,
	}
}

const habitColumns = `id, user_id, title, description, icon, color, frequency, target_days,
		reminder_time, current_streak, longest_streak, total_completed, is_active, start_date,
		created_at, updated_at`

func (r *habitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
		INSERT INTO habits (user_id, title, description, icon, color, frequency, target_days,
			reminder_time, current_streak, longest_streak, total_completed, is_active, start_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		h.UserID, h.Title, h.Description, h.Icon, h.Color, h.Frequency, intSlice(h.TargetDays),
		h.ReminderTime, h.CurrentStreak, h.LongestStreak, h.TotalCompleted, h.IsActive, h.StartDate,
		h.CreatedAt, h.UpdatedAt,
	).Scan(&h.ID)
}

func scanHabit(s interface{ Scan(dest ...any) error }) (*domain.Habit, error) {
	h := &domain.Habit{}
	var targetDays pq.Int64Array
	err := s.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Icon, &h.Color, &h.Frequency, &targetDays,
		&h.ReminderTime, &h.CurrentStreak, &h.LongestStreak, &h.TotalCompleted, &h.IsActive, &h.StartDate,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.TargetDays = fromInt64Array(targetDays)
	return h, nil
}

func (r *habitRepository) GetByID(ctx context.Context, userID, id string) (*domain.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE id = $1 AND user_id = $2
	`
	h, err := scanHabit(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *habitRepository) FindByTitle(ctx context.Context, userID, fragment string) (*domain.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE user_id = $1 AND is_active AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT 1
	`
	h, err := scanHabit(r.DB.QueryRowContext(ctx, query, userID, fragment))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *habitRepository) ListActive(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE user_id = $1 AND is_active
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	habits := make([]*domain.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (r *habitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
		UPDATE habits
		SET title = $3, description = $4, icon = $5, color = $6, frequency = $7, target_days = $8,
			reminder_time = $9, current_streak = $10, longest_streak = $11, total_completed = $12,
			is_active = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		h.ID, h.UserID, h.Title, h.Description, h.Icon, h.Color, h.Frequency, intSlice(h.TargetDays),
		h.ReminderTime, h.CurrentStreak, h.LongestStreak, h.TotalCompleted, h.IsActive, h.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *habitRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *habitRepository) UpsertLog(ctx context.Context, log *domain.HabitLog) error {
	query := `
		INSERT INTO habit_logs (habit_id, log_date, completed, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, log_date) DO UPDATE SET completed = $3, notes = $4
	`
	_, err := r.DB.ExecContext(ctx, query, log.HabitID, log.Date, log.Completed, log.Notes)
	return err
}

func (r *habitRepository) GetLogForDay(ctx context.Context, habitID string, day time.Time) (*domain.HabitLog, error) {
	query := `
		SELECT habit_id, log_date, completed, notes
		FROM habit_logs
		WHERE habit_id = $1 AND log_date = $2
	`
	log := &domain.HabitLog{}
	err := r.DB.QueryRowContext(ctx, query, habitID, day).Scan(&log.HabitID, &log.Date, &log.Completed, &log.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return log, nil
}

func (r *habitRepository) ListLogs(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitLog, error) {
	query := `
		SELECT habit_id, log_date, completed, notes
		FROM habit_logs
		WHERE habit_id = $1 AND log_date >= $2 AND log_date < $3
		ORDER BY log_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, habitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]*domain.HabitLog, 0)
	for rows.Next() {
		log := &domain.HabitLog{}
		if err := rows.Scan(&log.HabitID, &log.Date, &log.Completed, &log.Notes); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
