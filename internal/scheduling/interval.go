// Package scheduling implements the free-time and conflict engine: interval
// arithmetic over a user's calendar events, maximal free-slot computation
// within a day window, adjacent-pair conflict detection, and priority-based
// conflict resolution. The package is pure: it performs no I/O and holds no
// state between calls.
package scheduling

import "time"

// Interval is a half-open time window [Start, End). End is never before Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns the interval starting at start and spanning d.
// A non-positive duration yields a zero-width interval at start.
func NewInterval(start time.Time, d time.Duration) Interval {
	if d < 0 {
		d = 0
	}
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps reports whether the two intervals share any time. The comparison is
// strict: an interval ending exactly when the other starts does not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the half-open interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns the interval's length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Minutes returns the interval's length in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.Duration() / time.Minute)
}
