package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayplanner/internal/domain"
	"dayplanner/internal/scheduling"
)

// Default buffer lengths when the caller does not specify any.
const (
	defaultTravelMinutes        = 15
	defaultDecompressionMinutes = 15
)

type scheduleService struct {
	events         domain.EventService
	eventRepo      domain.EventRepository
	taskRepo       domain.TaskRepository
	presets        map[string]scheduling.DayWindow
	loc            *time.Location
	contextTimeout time.Duration
}

// NewScheduleService creates the scheduling facade. presets may extend or
// override the built-in day windows; loc fixes the wall-clock day boundaries.
func NewScheduleService(events domain.EventService, eventRepo domain.EventRepository, taskRepo domain.TaskRepository, presets map[string]scheduling.DayWindow, loc *time.Location, timeout time.Duration) domain.ScheduleService {
	merged := scheduling.DefaultPresets()
	for name, w := range presets {
		merged[name] = w
	}
	if loc == nil {
		loc = time.Local
	}
	return &scheduleService{
		events:         events,
		eventRepo:      eventRepo,
		taskRepo:       taskRepo,
		presets:        merged,
		loc:            loc,
		contextTimeout: timeout,
	}
}

// window resolves a query to a concrete bounding interval. Explicit hours win
// over the preset; an unknown or empty preset falls back to "any".
func (s *scheduleService) window(date time.Time, preset string, startHour, endHour int) (scheduling.Interval, error) {
	if endHour > 0 {
		return scheduling.BuildWindow(date, s.loc, startHour, endHour)
	}
	w, ok := s.presets[preset]
	if !ok {
		w = s.presets[scheduling.PresetAny]
	}
	return scheduling.BuildWindow(date, s.loc, w.StartHour, w.EndHour)
}

// dayViews loads the day's events, recurrence expanded, as engine views.
func (s *scheduleService) dayViews(ctx context.Context, userID string, date time.Time) ([]scheduling.Event, error) {
	bounds := scheduling.DayBounds(date, s.loc)
	events, err := s.events.ListEvents(ctx, userID, bounds.Start, bounds.End)
	if err != nil {
		return nil, err
	}
	views := make([]scheduling.Event, 0, len(events))
	for _, e := range events {
		views = append(views, scheduling.Event{
			ID:              e.ID,
			Title:           e.Title,
			Start:           e.StartTime,
			DurationMinutes: e.DurationMinutes,
			Priority:        e.Priority,
		})
	}
	return views, nil
}

func (s *scheduleService) GetFreeTime(ctx context.Context, userID string, q domain.FreeTimeQuery) ([]scheduling.FreeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	window, err := s.window(q.Date, q.Preset, q.StartHour, q.EndHour)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidRange) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return nil, err
	}
	views, err := s.dayViews(ctx, userID, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	slots := scheduling.FindFreeSlots(window, views, q.MinDurationMinutes)
	if slots == nil {
		slots = []scheduling.FreeSlot{}
	}
	return slots, nil
}

func (s *scheduleService) SuggestSlot(ctx context.Context, userID, title string, date time.Time, preferred string, durationMinutes int) (*domain.SlotSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if durationMinutes <= 0 {
		durationMinutes = scheduling.DefaultDurationMinutes
	}
	slots, err := s.GetFreeTime(ctx, userID, domain.FreeTimeQuery{
		Date:               date,
		Preset:             preferred,
		MinDurationMinutes: durationMinutes,
	})
	if err != nil {
		return nil, err
	}
	label := title
	if label == "" {
		label = "your event"
	}
	if len(slots) == 0 {
		// A full window is a normal outcome, not an error.
		return &domain.SlotSuggestion{
			Found:   false,
			Message: fmt.Sprintf("No free slot of at least %d minutes for %s on %s.", durationMinutes, label, date.In(s.loc).Format("Mon, Jan 2")),
		}, nil
	}
	best := slots[0]
	return &domain.SlotSuggestion{
		Found:    true,
		Slot:     &best,
		AllSlots: slots,
		Message:  fmt.Sprintf("Best slot for %s: %s at %s (%d minutes free).", label, best.Start.In(s.loc).Format("Mon, Jan 2"), best.Start.In(s.loc).Format("15:04"), best.DurationMinutes),
	}, nil
}

func (s *scheduleService) GetConflicts(ctx context.Context, userID string, date time.Time, autoResolve bool) (*domain.ConflictReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Conflict scans use stored events only: a recurring occurrence has no row
	// of its own to reschedule.
	bounds := scheduling.DayBounds(date, s.loc)
	events, err := s.eventRepo.ListByRange(ctx, userID, bounds.Start, bounds.End)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	views := make([]scheduling.Event, 0, len(events))
	for _, e := range events {
		views = append(views, scheduling.Event{
			ID:              e.ID,
			Title:           e.Title,
			Start:           e.StartTime,
			DurationMinutes: e.DurationMinutes,
			Priority:        e.Priority,
		})
	}

	pairs := scheduling.DetectConflicts(views)
	report := &domain.ConflictReport{HasConflicts: len(pairs) > 0}
	if !autoResolve {
		report.Conflicts = pairs
		return report, nil
	}

	count, err := scheduling.ResolveConflicts(pairs, func(eventID string, newStart time.Time) error {
		return s.eventRepo.UpdateStartTime(ctx, userID, eventID, newStart)
	})
	report.Resolved = true
	report.ResolvedCount = count
	if err != nil {
		return report, fmt.Errorf("resolve conflicts: %w", err)
	}
	return report, nil
}

func (s *scheduleService) Availability(ctx context.Context, userID string, start, end time.Time, slotMinutes int) ([]domain.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if end.Before(start) {
		return nil, fmt.Errorf("range end before start: %w", domain.ErrInvalidInput)
	}
	if slotMinutes <= 0 {
		slotMinutes = scheduling.DefaultMinSlotMinutes
	}

	days := make([]domain.DayAvailability, 0)
	for day := start.In(s.loc); !scheduling.DayBounds(day, s.loc).Start.After(scheduling.DayBounds(end, s.loc).Start); day = day.AddDate(0, 0, 1) {
		slots, err := s.GetFreeTime(ctx, userID, domain.FreeTimeQuery{
			Date:               day,
			Preset:             scheduling.PresetWorkday,
			MinDurationMinutes: slotMinutes,
		})
		if err != nil {
			return nil, err
		}
		local := day.In(s.loc)
		days = append(days, domain.DayAvailability{
			Date:    local.Format("2006-01-02"),
			DayName: local.Format("Monday"),
			Slots:   slots,
		})
	}
	return days, nil
}

func (s *scheduleService) WorkloadHeatmap(ctx context.Context, userID string, start, end time.Time) (map[string]domain.DayWorkload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if end.Before(start) {
		return nil, fmt.Errorf("range end before start: %w", domain.ErrInvalidInput)
	}

	heatmap := make(map[string]domain.DayWorkload)
	for day := start.In(s.loc); !scheduling.DayBounds(day, s.loc).Start.After(scheduling.DayBounds(end, s.loc).Start); day = day.AddDate(0, 0, 1) {
		bounds := scheduling.DayBounds(day, s.loc)
		events, err := s.events.ListEvents(ctx, userID, bounds.Start, bounds.End)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		tasks, err := s.taskRepo.ListDueInRange(ctx, userID, bounds.Start, bounds.End)
		if err != nil {
			return nil, fmt.Errorf("list due tasks: %w", err)
		}

		var highEvents int
		var meetingHours float64
		for _, e := range events {
			if e.Priority == domain.PriorityHigh {
				highEvents++
			}
			d := e.DurationMinutes
			if d <= 0 {
				d = domain.DefaultEventDurationMinutes
			}
			meetingHours += float64(d) / 60
		}
		var highTasks int
		for _, t := range tasks {
			if t.Priority == domain.PriorityHigh {
				highTasks++
			}
		}

		score := len(events)*15 + highEvents*10 + len(tasks)*10 + highTasks*15 + int(meetingHours*8)
		if score > 100 {
			score = 100
		}
		heatmap[day.In(s.loc).Format("2006-01-02")] = domain.DayWorkload{
			Score:        score,
			Level:        workloadLevel(score),
			Events:       len(events),
			Tasks:        len(tasks),
			MeetingHours: meetingHours,
		}
	}
	return heatmap, nil
}

func workloadLevel(score int) string {
	switch {
	case score < 25:
		return "light"
	case score < 50:
		return "moderate"
	case score < 75:
		return "busy"
	default:
		return "overloaded"
	}
}

func (s *scheduleService) AddBuffers(ctx context.Context, userID, eventID string, opts domain.BufferOptions) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Kind == domain.EventKindBuffer {
		return nil, fmt.Errorf("cannot buffer a buffer event: %w", domain.ErrInvalidInput)
	}

	travel := opts.TravelMinutes
	decompression := opts.DecompressionMinutes
	if travel == 0 && decompression == 0 {
		switch opts.EventType {
		case "appointment":
			travel, decompression = 30, 10
		case "workout":
			travel, decompression = 10, 30
		default:
			travel, decompression = defaultTravelMinutes, defaultDecompressionMinutes
		}
	}

	now := time.Now()
	created := make([]*domain.Event, 0, 2)
	if travel > 0 {
		buffer := domain.NewEvent(userID, "Travel: "+event.Title, event.StartTime.Add(-time.Duration(travel)*time.Minute), travel, now, now)
		buffer.Kind = domain.EventKindBuffer
		buffer.Priority = domain.PriorityLow
		buffer.Category = event.Category
		buffer.LinkedEventID = &event.ID
		if err := s.eventRepo.Create(ctx, buffer); err != nil {
			return created, fmt.Errorf("create travel buffer: %w", err)
		}
		created = append(created, buffer)
	}
	if decompression > 0 {
		buffer := domain.NewEvent(userID, "Decompression: "+event.Title, event.EndTime(), decompression, now, now)
		buffer.Kind = domain.EventKindBuffer
		buffer.Priority = domain.PriorityLow
		buffer.Category = event.Category
		buffer.LinkedEventID = &event.ID
		if err := s.eventRepo.Create(ctx, buffer); err != nil {
			return created, fmt.Errorf("create decompression buffer: %w", err)
		}
		created = append(created, buffer)
	}
	return created, nil
}
