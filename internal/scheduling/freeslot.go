package scheduling

import (
	"sort"
	"time"
)

// DefaultMinSlotMinutes is the minimum free-slot length used when the caller
// does not specify one.
const DefaultMinSlotMinutes = 30

// FreeSlot is a maximal gap inside a bounding window, at least as long as the
// requested minimum duration.
type FreeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

// FindFreeSlots computes the chronologically ordered maximal free sub-intervals
// of window not covered by any busy event, keeping only gaps of at least
// minDurationMinutes. Busy events that do not intersect the window are ignored.
// Overlapping and fully nested busy events collapse: the cursor only ever moves
// forward, so a short event inside a longer one never re-opens free time. An
// empty result means the window is fully booked; it is not an error.
func FindFreeSlots(window Interval, events []Event, minDurationMinutes int) []FreeSlot {
	if minDurationMinutes <= 0 {
		minDurationMinutes = DefaultMinSlotMinutes
	}
	minGap := time.Duration(minDurationMinutes) * time.Minute

	busy := make([]Interval, 0, len(events))
	for _, e := range events {
		iv := e.Interval()
		if !iv.Overlaps(window) {
			continue
		}
		busy = append(busy, iv)
	}
	// Stable: events sharing a start keep their input order.
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})

	var slots []FreeSlot
	cursor := window.Start
	emit := func(from, to time.Time) {
		gap := to.Sub(from)
		if gap >= minGap {
			slots = append(slots, FreeSlot{
				Start:           from,
				End:             to,
				DurationMinutes: int(gap / time.Minute),
			})
		}
	}

	for _, iv := range busy {
		if cursor.Before(iv.Start) {
			emit(cursor, iv.Start)
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(window.End) {
		emit(cursor, window.End)
	}
	return slots
}
