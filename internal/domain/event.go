package domain

import (
	"context"
	"time"
)

// Priority levels shared by events, tasks and reminders.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Repeat rules for recurring events.
const (
	RepeatNone    = "none"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatYearly  = "yearly"
)

// Event kinds. Buffer events are auto-generated travel/decompression blocks
// linked to a regular event.
const (
	EventKindRegular = "event"
	EventKindBuffer  = "buffer"
)

// DefaultEventDurationMinutes is assumed when an event has no explicit duration.
const DefaultEventDurationMinutes = 60

// Event represents a calendar event owned by a user.
// swagger:model Event
type Event struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	StartTime       time.Time  `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Priority        string     `json:"priority"`
	Category        string     `json:"category"`
	Location        string     `json:"location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ReminderMinutes int        `json:"reminder_minutes"`
	Repeat          string     `json:"repeat"`
	RepeatUntil     *time.Time `json:"repeat_until,omitempty"`
	AllDay          bool       `json:"all_day"`
	Kind            string     `json:"kind"`
	LinkedEventID   *string    `json:"linked_event_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with defaults applied. ID is typically set by the repository on create.
func NewEvent(userID, title string, startTime time.Time, durationMinutes int, createdAt, updatedAt time.Time) *Event {
	if durationMinutes <= 0 {
		durationMinutes = DefaultEventDurationMinutes
	}
	return &Event{
		UserID:          userID,
		Title:           title,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		Priority:        PriorityMedium,
		Category:        "personal",
		Repeat:          RepeatNone,
		Kind:            EventKindRegular,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// EndTime returns the event's nominal end (start plus duration).
func (e *Event) EndTime() time.Time {
	d := e.DurationMinutes
	if d == 0 {
		d = DefaultEventDurationMinutes
	}
	return e.StartTime.Add(time.Duration(d) * time.Minute)
}

// EventRepository defines the interface for event storage. All queries are
// scoped to a single user.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, userID, id string) (*Event, error)
	// ListByRange returns events whose start time falls in [from, to), ordered by start time.
	ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*Event, error)
	// ListRepeatingBefore returns repeating events that started before the given
	// time and whose repeat rule has not expired by then. Together with
	// ListByRange this covers every event that can produce an occurrence in a
	// range starting at that time.
	ListRepeatingBefore(ctx context.Context, userID string, before time.Time) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	// UpdateStartTime moves an event to a new start, leaving everything else untouched.
	UpdateStartTime(ctx context.Context, userID, id string, newStart time.Time) error
	Delete(ctx context.Context, userID, id string) error
}

// EventService defines the business logic for calendar events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, userID, id string) (*Event, error)
	// ListEvents returns events in [from, to) with recurring events expanded
	// into concrete instances.
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, userID, id string) error
	// ExportICS renders the user's events in [from, to) as an iCalendar document.
	ExportICS(ctx context.Context, userID string, from, to time.Time) (string, error)
}
