package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"dayplanner/internal/domain"
	"dayplanner/internal/recurrence"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.UserID == "" {
		return fmt.Errorf("event owner is required: %w", domain.ErrInvalidInput)
	}
	if event.Title == "" {
		return fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	if event.StartTime.IsZero() {
		return fmt.Errorf("event start time is required: %w", domain.ErrInvalidInput)
	}
	if event.DurationMinutes <= 0 {
		event.DurationMinutes = domain.DefaultEventDurationMinutes
	}
	if event.Priority == "" {
		event.Priority = domain.PriorityMedium
	}
	if event.Category == "" {
		event.Category = "personal"
	}
	if event.Repeat == "" {
		event.Repeat = domain.RepeatNone
	}
	if event.Kind == "" {
		event.Kind = domain.EventKindRegular
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, userID, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !to.After(from) {
		return nil, fmt.Errorf("range end must be after start: %w", domain.ErrInvalidInput)
	}

	inRange, err := s.eventRepo.ListByRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	// Repeating events that started before the range can still produce
	// occurrences inside it.
	carried, err := s.eventRepo.ListRepeatingBefore(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("list repeating events: %w", err)
	}

	expanded, err := recurrence.Expand(append(inRange, carried...), from, to)
	if err != nil {
		return nil, fmt.Errorf("expand events: %w", err)
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].StartTime.Before(expanded[j].StartTime)
	})
	if expanded == nil {
		expanded = []*domain.Event{}
	}
	return expanded, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.ID == "" || event.UserID == "" {
		return domain.ErrInvalidInput
	}
	current, err := s.eventRepo.GetByID(ctx, event.UserID, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ExportICS(ctx context.Context, userID string, from, to time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !to.After(from) {
		return "", fmt.Errorf("range end must be after start: %w", domain.ErrInvalidInput)
	}

	// Export base events, not expanded instances: the RRULE carries the
	// recurrence so the importing calendar expands it itself.
	inRange, err := s.eventRepo.ListByRange(ctx, userID, from, to)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	carried, err := s.eventRepo.ListRepeatingBefore(ctx, userID, from)
	if err != nil {
		return "", fmt.Errorf("list repeating events: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//dayplanner//calendar export//EN")

	for _, e := range append(inRange, carried...) {
		ve := cal.AddEvent(e.ID + "@dayplanner")
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetDtStampTime(e.UpdatedAt)
		ve.SetStartAt(e.StartTime)
		ve.SetEndAt(e.EndTime())
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
		if rule := recurrence.RRuleString(e); rule != "" {
			ve.SetProperty(ics.ComponentPropertyRrule, rule)
		}
	}
	return cal.Serialize(), nil
}
