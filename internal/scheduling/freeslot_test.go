package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T, startHour, endHour int) Interval {
	t.Helper()
	w, err := BuildWindow(day, time.UTC, startHour, endHour)
	require.NoError(t, err)
	return w
}

func TestFindFreeSlots(t *testing.T) {
	tests := []struct {
		name   string
		window Interval
		events []Event
		minDur int
		want   []FreeSlot
	}{
		{
			name:   "empty day is one full slot",
			window: window(t, 9, 18),
			events: nil,
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(18, 0), DurationMinutes: 540},
			},
		},
		{
			name:   "single event splits the window",
			window: window(t, 9, 18),
			events: []Event{
				{ID: "e1", Start: at(10, 0), DurationMinutes: 60},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(10, 0), DurationMinutes: 60},
				{Start: at(11, 0), End: at(18, 0), DurationMinutes: 420},
			},
		},
		{
			name:   "nested busy interval does not reopen free time",
			window: window(t, 9, 18),
			events: []Event{
				{ID: "long", Start: at(10, 0), DurationMinutes: 90},
				{ID: "nested", Start: at(10, 45), DurationMinutes: 30},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(10, 0), DurationMinutes: 60},
				{Start: at(11, 30), End: at(18, 0), DurationMinutes: 390},
			},
		},
		{
			name:   "fully booked window yields no slots",
			window: window(t, 8, 12),
			events: []Event{
				{ID: "e1", Start: at(8, 0), DurationMinutes: 240},
			},
			minDur: 45,
			want:   nil,
		},
		{
			name:   "gaps shorter than the minimum are discarded, not truncated",
			window: window(t, 9, 12),
			events: []Event{
				{ID: "e1", Start: at(9, 20), DurationMinutes: 40},
				{ID: "e2", Start: at(10, 0), DurationMinutes: 60},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(11, 0), End: at(12, 0), DurationMinutes: 60},
			},
		},
		{
			name:   "busy interval straddling the window start consumes from the window start",
			window: window(t, 9, 18),
			events: []Event{
				{ID: "early", Start: at(8, 30), DurationMinutes: 90}, // 08:30-10:00
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(10, 0), End: at(18, 0), DurationMinutes: 480},
			},
		},
		{
			name:   "busy interval running past the window end leaves no trailing slot",
			window: window(t, 9, 18),
			events: []Event{
				{ID: "late", Start: at(17, 0), DurationMinutes: 120},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(17, 0), DurationMinutes: 480},
			},
		},
		{
			name:   "events entirely outside the window are ignored",
			window: window(t, 9, 18),
			events: []Event{
				{ID: "before", Start: at(6, 0), DurationMinutes: 60},
				{ID: "after", Start: at(19, 0), DurationMinutes: 60},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(18, 0), DurationMinutes: 540},
			},
		},
		{
			name:   "degenerate negative duration contributes no busy time",
			window: window(t, 9, 12),
			events: []Event{
				{ID: "bogus", Start: at(10, 0), DurationMinutes: -30},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(9, 0), End: at(12, 0), DurationMinutes: 180},
			},
		},
		{
			name:   "events touching back to back leave neither gap nor conflict",
			window: window(t, 9, 12),
			events: []Event{
				{ID: "a", Start: at(9, 0), DurationMinutes: 60},
				{ID: "b", Start: at(10, 0), DurationMinutes: 60},
			},
			minDur: 30,
			want: []FreeSlot{
				{Start: at(11, 0), End: at(12, 0), DurationMinutes: 60},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFreeSlots(tt.window, tt.events, tt.minDur)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindFreeSlots_UnsortedInput(t *testing.T) {
	w := window(t, 9, 18)
	events := []Event{
		{ID: "late", Start: at(15, 0), DurationMinutes: 60},
		{ID: "early", Start: at(10, 0), DurationMinutes: 60},
	}
	got := FindFreeSlots(w, events, 30)
	want := []FreeSlot{
		{Start: at(9, 0), End: at(10, 0), DurationMinutes: 60},
		{Start: at(11, 0), End: at(15, 0), DurationMinutes: 240},
		{Start: at(16, 0), End: at(18, 0), DurationMinutes: 120},
	}
	assert.Equal(t, want, got)
}

// The returned slots never overlap each other or any busy interval, and slots
// plus clamped busy time plus sub-minimum gaps exactly tile the window.
func TestFindFreeSlots_Invariants(t *testing.T) {
	w := window(t, 8, 21)
	events := []Event{
		{ID: "a", Start: at(7, 30), DurationMinutes: 90},  // straddles start
		{ID: "b", Start: at(9, 10), DurationMinutes: 45},
		{ID: "c", Start: at(9, 30), DurationMinutes: 120}, // overlaps b
		{ID: "d", Start: at(12, 0), DurationMinutes: 20},
		{ID: "e", Start: at(20, 30), DurationMinutes: 90}, // straddles end
	}
	minDur := 30
	slots := FindFreeSlots(w, events, minDur)
	require.NotEmpty(t, slots)

	for i, s := range slots {
		assert.GreaterOrEqual(t, s.DurationMinutes, minDur)
		assert.True(t, s.Start.Before(s.End))
		assert.False(t, s.Start.Before(w.Start), "slot starts inside the window")
		assert.False(t, s.End.After(w.End), "slot ends inside the window")
		if i > 0 {
			assert.False(t, s.Start.Before(slots[i-1].End), "slots are ordered and disjoint")
		}
		free := Interval{Start: s.Start, End: s.End}
		for _, e := range events {
			assert.False(t, free.Overlaps(e.Interval()),
				"slot %v overlaps busy event %s", s, e.ID)
		}
	}

	// Idempotence: same input, same output.
	assert.Equal(t, slots, FindFreeSlots(w, events, minDur))

	// Coverage: free slot minutes plus busy-or-short-gap minutes account for
	// the whole window.
	freeMinutes := 0
	for _, s := range slots {
		freeMinutes += s.DurationMinutes
	}
	covered := 0
	cursor := w.Start
	busy := []Interval{}
	for _, e := range events {
		if iv := e.Interval(); iv.Overlaps(w) {
			busy = append(busy, iv)
		}
	}
	for _, iv := range busy {
		if iv.Start.After(cursor) {
			gap := int(iv.Start.Sub(cursor) / time.Minute)
			if gap < minDur {
				covered += gap // short gap, unusable but accounted for
			}
		}
		if iv.End.After(cursor) {
			if iv.Start.After(cursor) {
				covered += int(iv.End.Sub(iv.Start) / time.Minute)
			} else {
				covered += int(iv.End.Sub(cursor) / time.Minute)
			}
			cursor = iv.End
		}
	}
	if cursor.Before(w.End) {
		if gap := int(w.End.Sub(cursor) / time.Minute); gap < minDur {
			covered += gap
		}
	}
	if cursor.After(w.End) {
		covered -= int(cursor.Sub(w.End) / time.Minute) // busy time past the window edge
	}
	assert.Equal(t, w.Minutes(), freeMinutes+covered, "window must be fully tiled")
}
