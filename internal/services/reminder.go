package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dayplanner/internal/domain"
)

type reminderService struct {
	reminderRepo   domain.ReminderRepository
	userRepo       domain.UserRepository
	notifier       domain.NotificationService
	loc            *time.Location
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewReminderService creates a ReminderService. loc is the wall-clock location
// used to interpret HH:mm trigger times.
func NewReminderService(reminderRepo domain.ReminderRepository, userRepo domain.UserRepository, notifier domain.NotificationService, loc *time.Location, logger *slog.Logger, timeout time.Duration) domain.ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &reminderService{
		reminderRepo:   reminderRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		loc:            loc,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *reminderService) CreateReminder(ctx context.Context, reminder *domain.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reminder.UserID == "" {
		return fmt.Errorf("reminder owner is required: %w", domain.ErrInvalidInput)
	}
	if reminder.Title == "" {
		return fmt.Errorf("reminder title is required: %w", domain.ErrInvalidInput)
	}
	if _, err := parseTimeOfDay(reminder.TimeOfDay); err != nil {
		return fmt.Errorf("invalid time of day %q: %w", reminder.TimeOfDay, domain.ErrInvalidInput)
	}
	if reminder.Type == "" {
		reminder.Type = domain.ReminderTypeCustom
	}
	if reminder.Repeat == "" {
		reminder.Repeat = domain.ReminderRepeatOnce
	}
	if reminder.Priority == "" {
		reminder.Priority = domain.PriorityMedium
	}
	reminder.IsActive = true

	next := s.nextTrigger(reminder.TimeOfDay, time.Now())
	reminder.NextTrigger = &next
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()
	return s.reminderRepo.Create(ctx, reminder)
}

func (s *reminderService) GetReminder(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reminder, err := s.reminderRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return reminder, nil
}

func (s *reminderService) ListReminders(ctx context.Context, userID string) ([]*domain.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reminders, err := s.reminderRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	if reminders == nil {
		reminders = []*domain.Reminder{}
	}
	return reminders, nil
}

func (s *reminderService) UpdateReminder(ctx context.Context, reminder *domain.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reminder.ID == "" || reminder.UserID == "" {
		return domain.ErrInvalidInput
	}
	current, err := s.reminderRepo.GetByID(ctx, reminder.UserID, reminder.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get reminder: %w", err)
	}
	if _, err := parseTimeOfDay(reminder.TimeOfDay); err != nil {
		return fmt.Errorf("invalid time of day %q: %w", reminder.TimeOfDay, domain.ErrInvalidInput)
	}
	if reminder.TimeOfDay != current.TimeOfDay {
		next := s.nextTrigger(reminder.TimeOfDay, time.Now())
		reminder.NextTrigger = &next
	} else {
		reminder.NextTrigger = current.NextTrigger
	}
	reminder.LastTriggered = current.LastTriggered
	reminder.CreatedAt = current.CreatedAt
	reminder.UpdatedAt = time.Now()
	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}

func (s *reminderService) DeleteReminder(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.reminderRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

// DispatchDue runs from the periodic dispatcher. Per-reminder failures are
// logged and skipped so one bad address cannot block the batch.
func (s *reminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	due, err := s.reminderRepo.ListTriggeredInRange(ctx, time.Time{}, now.Add(time.Second))
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	dispatched := 0
	for _, reminder := range due {
		user, err := s.userRepo.GetByID(ctx, reminder.UserID)
		if err != nil {
			s.logger.Error("reminder dispatch: user lookup failed", "reminder_id", reminder.ID, "user_id", reminder.UserID, "error", err)
			continue
		}
		data := &domain.ReminderEmailData{
			Email:       user.Email,
			Name:        user.Name,
			Title:       reminder.Title,
			Description: reminder.Description,
			TimeOfDay:   reminder.TimeOfDay,
		}
		if err := s.notifier.SendReminderDue(ctx, data); err != nil {
			s.logger.Error("reminder dispatch: send failed", "reminder_id", reminder.ID, "error", err)
			continue
		}

		triggered := now
		reminder.LastTriggered = &triggered
		if reminder.Repeat == domain.ReminderRepeatOnce {
			reminder.IsActive = false
			reminder.NextTrigger = nil
		} else {
			next := s.advanceTrigger(reminder, now)
			reminder.NextTrigger = &next
		}
		reminder.UpdatedAt = now
		if err := s.reminderRepo.Update(ctx, reminder); err != nil {
			s.logger.Error("reminder dispatch: update failed", "reminder_id", reminder.ID, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// nextTrigger returns the next wall-clock occurrence of the HH:mm time at or
// after now: today if the time is still ahead, otherwise tomorrow.
func (s *reminderService) nextTrigger(timeOfDay string, now time.Time) time.Time {
	hm, _ := parseTimeOfDay(timeOfDay)
	local := now.In(s.loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d, hm.hour, hm.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// advanceTrigger moves a repeating reminder's trigger past now.
func (s *reminderService) advanceTrigger(reminder *domain.Reminder, now time.Time) time.Time {
	base := now
	if reminder.NextTrigger != nil {
		base = *reminder.NextTrigger
	}
	for !base.After(now) {
		switch reminder.Repeat {
		case domain.ReminderRepeatWeekly:
			base = base.AddDate(0, 0, 7)
		case domain.ReminderRepeatMonthly:
			base = base.AddDate(0, 1, 0)
		default:
			base = base.AddDate(0, 0, 1)
		}
	}
	return base
}

type hourMinute struct {
	hour   int
	minute int
}

func parseTimeOfDay(v string) (hourMinute, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return hourMinute{}, err
	}
	return hourMinute{hour: t.Hour(), minute: t.Minute()}, nil
}
