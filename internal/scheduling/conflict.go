package scheduling

import (
	"math"
	"time"
)

// rescheduleBuffer is the fixed gap left between a kept event and the event
// moved behind it during conflict resolution.
const rescheduleBuffer = 5 * time.Minute

// ConflictPair is an overlapping pair of events. First is the chronologically
// earlier event as scanned; OverlapMinutes is always positive.
type ConflictPair struct {
	First          Event `json:"first"`
	Second         Event `json:"second"`
	OverlapMinutes int   `json:"overlap_minutes"`
}

// DetectConflicts scans a start-sorted event list for overlapping pairs.
//
// The scan compares adjacent events only: index i against i+1, never i against
// i+2. An event long enough to span entirely over its immediate successor can
// therefore overlap a later event without being reported. Downstream
// auto-resolution depends on exactly this set of pairs, so the scan shape must
// not be widened to a full sweep.
func DetectConflicts(events []Event) []ConflictPair {
	var pairs []ConflictPair
	for i := 0; i+1 < len(events); i++ {
		cur, next := events[i], events[i+1]
		overlap := cur.End().Sub(next.Start)
		if overlap <= 0 {
			continue
		}
		pairs = append(pairs, ConflictPair{
			First:          cur,
			Second:         next,
			OverlapMinutes: int(math.Round(overlap.Minutes())),
		})
	}
	return pairs
}

// RescheduleFunc applies a new start time to the event with the given ID.
// Implementations perform the actual store write.
type RescheduleFunc func(eventID string, newStart time.Time) error

// ResolveConflicts decides, for each pair, which event stays fixed and which
// moves, and applies the move through apply. A high-priority event is the
// fixed anchor; when neither or both are high priority, the earlier event wins
// and the later one moves. The moved event is placed at the fixed event's end
// plus a five-minute buffer.
//
// The pass is single-shot: one reschedule per pair, in detection order, with
// no re-scan for conflicts introduced by the moves. Returns the number of
// pairs resolved; a failed apply aborts the pass and the error propagates
// unchanged.
func ResolveConflicts(pairs []ConflictPair, apply RescheduleFunc) (int, error) {
	resolved := 0
	for _, p := range pairs {
		fixed, moved := p.First, p.Second
		if p.Second.Priority == PriorityHigh && p.First.Priority != PriorityHigh {
			fixed, moved = p.Second, p.First
		}
		newStart := fixed.End().Add(rescheduleBuffer)
		if err := apply(moved.ID, newStart); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}
