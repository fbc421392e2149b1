package domain

import (
	"context"
	"time"

	"dayplanner/internal/scheduling"
)

// FreeTimeQuery parameterizes a free-time computation for one day.
// Preset names a built-in or configured day window (morning, afternoon,
// evening, any, workday); explicit hours override the preset when EndHour is
// set. MinDurationMinutes defaults to 30 when zero.
type FreeTimeQuery struct {
	Date               time.Time
	Preset             string
	StartHour          int
	EndHour            int
	MinDurationMinutes int
}

// SlotSuggestion is the outcome of a slot search. Found is false when no slot
// of the requested duration exists — a normal result, not an error.
type SlotSuggestion struct {
	Found    bool                 `json:"found"`
	Slot     *scheduling.FreeSlot `json:"slot,omitempty"`
	AllSlots []scheduling.FreeSlot `json:"all_slots,omitempty"`
	Message  string               `json:"message"`
}

// ConflictReport is the outcome of a conflict scan. When the scan ran with
// auto-resolve, only ResolvedCount is populated and the pair list is empty.
type ConflictReport struct {
	Conflicts     []scheduling.ConflictPair `json:"conflicts,omitempty"`
	HasConflicts  bool                      `json:"has_conflicts"`
	Resolved      bool                      `json:"resolved"`
	ResolvedCount int                       `json:"resolved_count,omitempty"`
}

// DayAvailability lists the open slots of one day in a multi-day availability
// query.
type DayAvailability struct {
	Date    string                `json:"date"` // YYYY-MM-DD
	DayName string                `json:"day_name"`
	Slots   []scheduling.FreeSlot `json:"slots"`
}

// DayWorkload scores how loaded a single day is.
type DayWorkload struct {
	Score        int     `json:"score"` // 0-100
	Level        string  `json:"level"` // light, moderate, busy, overloaded
	Events       int     `json:"events"`
	Tasks        int     `json:"tasks"`
	MeetingHours float64 `json:"meeting_hours"`
}

// BufferOptions controls smart-buffer creation around an event.
type BufferOptions struct {
	TravelMinutes        int
	DecompressionMinutes int
	EventType            string
}

// ScheduleService is the scheduling facade: it fetches the event snapshot,
// runs the pure engine in internal/scheduling, and (for auto-resolve) issues
// the reschedule writes.
type ScheduleService interface {
	// GetFreeTime returns the free slots of the queried day window.
	GetFreeTime(ctx context.Context, userID string, q FreeTimeQuery) ([]scheduling.FreeSlot, error)
	// SuggestSlot finds the earliest slot of at least durationMinutes in the
	// preferred window of the given day.
	SuggestSlot(ctx context.Context, userID, title string, date time.Time, preferred string, durationMinutes int) (*SlotSuggestion, error)
	// GetConflicts scans the day's events for overlapping pairs and optionally
	// auto-resolves them by priority.
	GetConflicts(ctx context.Context, userID string, date time.Time, autoResolve bool) (*ConflictReport, error)
	// Availability lists free slots per day over [start, end] during workday hours.
	Availability(ctx context.Context, userID string, start, end time.Time, slotMinutes int) ([]DayAvailability, error)
	// WorkloadHeatmap scores each day in [start, end] from its events and due tasks.
	WorkloadHeatmap(ctx context.Context, userID string, start, end time.Time) (map[string]DayWorkload, error)
	// AddBuffers creates travel/decompression buffer events around an event.
	AddBuffers(ctx context.Context, userID, eventID string, opts BufferOptions) ([]*Event, error)
}
