// Package recurrence expands repeating calendar events into concrete
// per-occurrence instances within a query range.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"dayplanner/internal/domain"
)

// maxOccurrences caps expansion per event to avoid unbounded growth when a
// repeat rule has no end date and the query range is very wide.
const maxOccurrences = 1000

// freqFor maps an event repeat rule to an rrule frequency.
func freqFor(repeat string) (rrule.Frequency, bool) {
	switch repeat {
	case domain.RepeatDaily:
		return rrule.DAILY, true
	case domain.RepeatWeekly:
		return rrule.WEEKLY, true
	case domain.RepeatMonthly:
		return rrule.MONTHLY, true
	case domain.RepeatYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// RRuleString returns the iCalendar RRULE value for a repeating event, or ""
// for non-repeating events. Used by the ICS exporter.
func RRuleString(e *domain.Event) string {
	freq, ok := freqFor(e.Repeat)
	if !ok {
		return ""
	}
	opt := rrule.ROption{Freq: freq, Dtstart: e.StartTime}
	if e.RepeatUntil != nil {
		opt.Until = *e.RepeatUntil
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return r.OrigOptions.RRuleString()
}

// ExpandEvent returns the concrete instances of an event whose start falls in
// [from, to). A non-repeating event yields itself if it starts in range.
// Instances are copies of the base event with shifted start times; the first
// instance keeps the base event's ID so store writes still resolve, and
// subsequent instances get a derived occurrence ID.
func ExpandEvent(e *domain.Event, from, to time.Time) ([]*domain.Event, error) {
	freq, ok := freqFor(e.Repeat)
	if !ok {
		if e.StartTime.Before(to) && !e.StartTime.Before(from) {
			return []*domain.Event{e}, nil
		}
		return nil, nil
	}

	opt := rrule.ROption{
		Freq:    freq,
		Dtstart: e.StartTime,
		Count:   maxOccurrences,
	}
	if e.RepeatUntil != nil {
		opt.Until = *e.RepeatUntil
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build rrule for event %s: %w", e.ID, err)
	}

	// Between is inclusive on both ends; the query range is half-open, so the
	// exact end instant is dropped below.
	times := r.Between(from, to, true)
	instances := make([]*domain.Event, 0, len(times))
	for _, start := range times {
		if !start.Before(to) {
			continue
		}
		inst := *e
		inst.StartTime = start
		if !start.Equal(e.StartTime) {
			inst.ID = fmt.Sprintf("%s@%s", e.ID, start.UTC().Format("20060102T150405Z"))
		}
		instances = append(instances, &inst)
	}
	return instances, nil
}

// Expand expands every event in the list into its instances within [from, to)
// and returns the union. Order follows the input list; callers sort by start
// time when chronology matters.
func Expand(events []*domain.Event, from, to time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range events {
		instances, err := ExpandEvent(e, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, instances...)
	}
	return out, nil
}
