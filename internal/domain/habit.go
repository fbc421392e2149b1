package domain

import (
	"context"
	"time"
)

// Habit frequencies.
const (
	HabitFrequencyDaily  = "daily"
	HabitFrequencyWeekly = "weekly"
	HabitFrequencyCustom = "custom"
)

// Habit represents a recurring personal habit with streak tracking.
// swagger:model Habit
type Habit struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	Frequency      string    `json:"frequency"`
	TargetDays     []int     `json:"target_days,omitempty"` // 0-6, Sunday-Saturday
	ReminderTime   string    `json:"reminder_time,omitempty"` // HH:mm
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	TotalCompleted int       `json:"total_completed"`
	IsActive       bool      `json:"is_active"`
	StartDate      time.Time `json:"start_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewHabit returns a new active Habit with defaults applied. ID is typically set by the repository on create.
func NewHabit(userID, title string, createdAt, updatedAt time.Time) *Habit {
	return &Habit{
		UserID:    userID,
		Title:     title,
		Icon:      "✓",
		Color:     "#8B5CF6",
		Frequency: HabitFrequencyDaily,
		IsActive:  true,
		StartDate: createdAt,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// HabitLog records whether a habit was completed on a given day.
// swagger:model HabitLog
type HabitLog struct {
	HabitID   string    `json:"habit_id"`
	Date      time.Time `json:"date"` // normalized to local midnight
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
}

// HabitRepository defines the interface for habit storage, scoped to a single user.
type HabitRepository interface {
	Create(ctx context.Context, habit *Habit) error
	GetByID(ctx context.Context, userID, id string) (*Habit, error)
	// FindByTitle returns the first active habit whose title contains the given
	// fragment (case-insensitive).
	FindByTitle(ctx context.Context, userID, fragment string) (*Habit, error)
	ListActive(ctx context.Context, userID string) ([]*Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, userID, id string) error
	// UpsertLog inserts or replaces the log entry for the log's habit and date.
	UpsertLog(ctx context.Context, log *HabitLog) error
	// GetLogForDay returns the log entry for the given day, or ErrNotFound.
	GetLogForDay(ctx context.Context, habitID string, day time.Time) (*HabitLog, error)
	// ListLogs returns log entries for the habit with dates in [from, to).
	ListLogs(ctx context.Context, habitID string, from, to time.Time) ([]*HabitLog, error)
}

// HabitService defines the business logic for habits.
type HabitService interface {
	CreateHabit(ctx context.Context, habit *Habit) error
	GetHabit(ctx context.Context, userID, id string) (*Habit, error)
	ListHabits(ctx context.Context, userID string) ([]*Habit, error)
	UpdateHabit(ctx context.Context, habit *Habit) error
	DeleteHabit(ctx context.Context, userID, id string) error
	// LogHabit records completion for the given day and updates streak counters.
	LogHabit(ctx context.Context, userID, id string, day time.Time, completed bool) (*Habit, error)
	// LogHabitByTitle logs today's completion for the first habit matching the title fragment.
	LogHabitByTitle(ctx context.Context, userID, fragment string, completed bool) (*Habit, error)
}
