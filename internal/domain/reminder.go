package domain

import (
	"context"
	"time"
)

// Reminder types.
const (
	ReminderTypeMedicine = "medicine"
	ReminderTypeMeeting  = "meeting"
	ReminderTypeWater    = "water"
	ReminderTypeSleep    = "sleep"
	ReminderTypeExercise = "exercise"
	ReminderTypeCustom   = "custom"
)

// Reminder repeat rules.
const (
	ReminderRepeatOnce    = "once"
	ReminderRepeatDaily   = "daily"
	ReminderRepeatWeekly  = "weekly"
	ReminderRepeatMonthly = "monthly"
)

// Reminder represents a time-of-day reminder owned by a user.
// swagger:model Reminder
type Reminder struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	TimeOfDay     string     `json:"time_of_day"` // HH:mm
	Repeat        string     `json:"repeat"`
	RepeatDays    []int      `json:"repeat_days,omitempty"` // 0-6, Sunday-Saturday
	Priority      string     `json:"priority"`
	IsActive      bool       `json:"is_active"`
	NextTrigger   *time.Time `json:"next_trigger,omitempty"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewReminder returns a new active Reminder with defaults applied. ID is typically set by the repository on create.
func NewReminder(userID, title, timeOfDay string, createdAt, updatedAt time.Time) *Reminder {
	return &Reminder{
		UserID:    userID,
		Title:     title,
		Type:      ReminderTypeCustom,
		TimeOfDay: timeOfDay,
		Repeat:    ReminderRepeatOnce,
		Priority:  PriorityMedium,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ReminderRepository defines the interface for reminder storage, scoped to a single user.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	GetByID(ctx context.Context, userID, id string) (*Reminder, error)
	ListActive(ctx context.Context, userID string) ([]*Reminder, error)
	// ListTriggeredInRange returns active reminders with a next trigger in [from, to), any user.
	ListTriggeredInRange(ctx context.Context, from, to time.Time) ([]*Reminder, error)
	Update(ctx context.Context, reminder *Reminder) error
	Delete(ctx context.Context, userID, id string) error
}

// ReminderService defines the business logic for reminders, including the
// periodic dispatch of due reminders.
type ReminderService interface {
	CreateReminder(ctx context.Context, reminder *Reminder) error
	GetReminder(ctx context.Context, userID, id string) (*Reminder, error)
	ListReminders(ctx context.Context, userID string) ([]*Reminder, error)
	UpdateReminder(ctx context.Context, reminder *Reminder) error
	DeleteReminder(ctx context.Context, userID, id string) error
	// DispatchDue notifies owners of reminders due at or before now and advances
	// their next trigger. Returns the number of reminders dispatched.
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}
