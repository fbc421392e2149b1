package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"dayplanner/internal/domain"
)

type taskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{
		DB: db,
	}
}

const taskColumns = `id, user_id, title, description, priority, status, due_date, completed_at,
		category, tags, estimated_minutes, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, priority, status, due_date, completed_at,
			category, tags, estimated_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.UserID, t.Title, t.Description, t.Priority, t.Status, t.DueDate, t.CompletedAt,
		t.Category, pq.StringArray(t.Tags), t.EstimatedMinutes, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func scanTask(s interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	t := &domain.Task{}
	var due, completed sql.NullTime
	var tags pq.StringArray
	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Status, &due, &completed,
		&t.Category, &tags, &t.EstimatedMinutes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	if completed.Valid {
		t.CompletedAt = &completed.Time
	}
	t.Tags = tags
	return t, nil
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
			AND ($2 = '' OR status = $2)
			AND ($3 = '' OR priority = $3)
		ORDER BY
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			due_date ASC NULLS LAST
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, filter.Status, filter.Priority)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListDueInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status <> 'completed'
			AND due_date >= $2 AND due_date < $3
		ORDER BY due_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status = 'completed' AND completed_at >= $2
		ORDER BY completed_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) FindByTitle(ctx context.Context, userID, fragment string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND status <> 'completed' AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT 1
	`
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, userID, fragment))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, priority = $5, status = $6, due_date = $7,
			completed_at = $8, category = $9, tags = $10, estimated_minutes = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Priority, t.Status, t.DueDate,
		t.CompletedAt, t.Category, pq.StringArray(t.Tags), t.EstimatedMinutes, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
