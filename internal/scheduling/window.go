package scheduling

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a day window's start hour is not strictly
// before its end hour.
var ErrInvalidRange = errors.New("scheduling: window start hour must be before end hour")

// DayWindow is a labeled wall-clock hour range used to bound free-time
// searches within a day.
type DayWindow struct {
	StartHour int `yaml:"start_hour" json:"start_hour"`
	EndHour   int `yaml:"end_hour" json:"end_hour"`
}

// Preset window names.
const (
	PresetMorning   = "morning"
	PresetAfternoon = "afternoon"
	PresetEvening   = "evening"
	PresetAny       = "any"
	PresetWorkday   = "workday"
)

// DefaultPresets returns the built-in named day windows.
func DefaultPresets() map[string]DayWindow {
	return map[string]DayWindow{
		PresetMorning:   {StartHour: 8, EndHour: 12},
		PresetAfternoon: {StartHour: 13, EndHour: 17},
		PresetEvening:   {StartHour: 18, EndHour: 21},
		PresetAny:       {StartHour: 8, EndHour: 21},
		PresetWorkday:   {StartHour: 9, EndHour: 18},
	}
}

// BuildWindow returns the bounding interval for the calendar date of ref,
// spanning [startHour:00, endHour:00) in the given location. The time-of-day
// component of ref is discarded. The location is an explicit parameter so day
// boundaries do not depend on the ambient process timezone; if loc is nil,
// ref's own location is used.
func BuildWindow(ref time.Time, loc *time.Location, startHour, endHour int) (Interval, error) {
	if startHour >= endHour {
		return Interval{}, ErrInvalidRange
	}
	if loc == nil {
		loc = ref.Location()
	}
	y, m, d := ref.In(loc).Date()
	return Interval{
		Start: time.Date(y, m, d, startHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, endHour, 0, 0, 0, loc),
	}, nil
}

// DayBounds returns the [midnight, next midnight) interval containing ref in
// the given location. Used to scope event queries to a single day.
func DayBounds(ref time.Time, loc *time.Location) Interval {
	if loc == nil {
		loc = ref.Location()
	}
	y, m, d := ref.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
