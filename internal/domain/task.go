package domain

import (
	"context"
	"time"
)

// Task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Task represents a to-do item owned by a user.
// swagger:model Task
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewTask returns a new pending Task with defaults applied. ID is typically set by the repository on create.
func NewTask(userID, title string, createdAt, updatedAt time.Time) *Task {
	return &Task{
		UserID:    userID,
		Title:     title,
		Priority:  PriorityMedium,
		Status:    TaskStatusPending,
		Category:  "general",
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// TaskFilter narrows task list queries. Zero values mean "any".
type TaskFilter struct {
	Status   string
	Priority string
}

// TaskRepository defines the interface for task storage, scoped to a single user.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, userID, id string) (*Task, error)
	// List returns tasks matching the filter, ordered by priority then due date.
	List(ctx context.Context, userID string, filter TaskFilter) ([]*Task, error)
	// ListDueInRange returns non-completed tasks whose due date falls in [from, to).
	ListDueInRange(ctx context.Context, userID string, from, to time.Time) ([]*Task, error)
	// ListCompletedSince returns tasks completed at or after the given time.
	ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]*Task, error)
	// FindByTitle returns the first non-completed task whose title contains the
	// given fragment (case-insensitive).
	FindByTitle(ctx context.Context, userID, fragment string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, userID, id string) error
}

// TaskService defines the business logic for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, userID, id string) (*Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	// CompleteTask marks the task completed and stamps CompletedAt.
	CompleteTask(ctx context.Context, userID, id string) (*Task, error)
	// CompleteTaskByTitle completes the first open task matching the title fragment.
	CompleteTaskByTitle(ctx context.Context, userID, fragment string) (*Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
}
