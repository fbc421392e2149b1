package scheduling

import "time"

// Priority values recognized by the conflict resolver. Only "high" changes
// resolution behavior; anything else is treated alike.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultDurationMinutes is assumed for events with no explicit duration.
const DefaultDurationMinutes = 60

// Event is the scheduling engine's read-only view of a calendar event. The
// engine never owns or mutates events; rescheduling is delegated back to the
// caller through a RescheduleFunc.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	Priority        string    `json:"priority"`
}

// Interval returns the busy interval occupied by the event. A zero duration
// means "unset" and defaults to DefaultDurationMinutes; a negative duration is
// degenerate and yields a zero-width interval.
func (e Event) Interval() Interval {
	d := e.DurationMinutes
	if d == 0 {
		d = DefaultDurationMinutes
	}
	return NewInterval(e.Start, time.Duration(d)*time.Minute)
}

// End returns the end of the event's busy interval.
func (e Event) End() time.Time {
	return e.Interval().End
}
