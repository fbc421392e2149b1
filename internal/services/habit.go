package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayplanner/internal/domain"
)

type habitService struct {
	habitRepo      domain.HabitRepository
	contextTimeout time.Duration
}

func NewHabitService(habitRepo domain.HabitRepository, timeout time.Duration) domain.HabitService {
	return &habitService{
		habitRepo:      habitRepo,
		contextTimeout: timeout,
	}
}

func (s *habitService) CreateHabit(ctx context.Context, habit *domain.Habit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if habit.UserID == "" {
		return fmt.Errorf("habit owner is required: %w", domain.ErrInvalidInput)
	}
	if habit.Title == "" {
		return fmt.Errorf("habit title is required: %w", domain.ErrInvalidInput)
	}
	if habit.Frequency == "" {
		habit.Frequency = domain.HabitFrequencyDaily
	}
	if habit.Icon == "" {
		habit.Icon = "✓"
	}
	if habit.Color == "" {
		habit.Color = "#8B5CF6"
	}
	habit.IsActive = true

	now := time.Now()
	if habit.StartDate.IsZero() {
		habit.StartDate = now
	}
	habit.CreatedAt = now
	habit.UpdatedAt = now
	return s.habitRepo.Create(ctx, habit)
}

func (s *habitService) GetHabit(ctx context.Context, userID, id string) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	habit, err := s.habitRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return habit, nil
}

func (s *habitService) ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	habits, err := s.habitRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	if habits == nil {
		habits = []*domain.Habit{}
	}
	return habits, nil
}

func (s *habitService) UpdateHabit(ctx context.Context, habit *domain.Habit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if habit.ID == "" || habit.UserID == "" {
		return domain.ErrInvalidInput
	}
	current, err := s.habitRepo.GetByID(ctx, habit.UserID, habit.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get habit: %w", err)
	}
	// Streak counters are owned by LogHabit, not by plain edits.
	habit.CurrentStreak = current.CurrentStreak
	habit.LongestStreak = current.LongestStreak
	habit.TotalCompleted = current.TotalCompleted
	habit.CreatedAt = current.CreatedAt
	habit.UpdatedAt = time.Now()
	if err := s.habitRepo.Update(ctx, habit); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update habit: %w", err)
	}
	return nil
}

func (s *habitService) DeleteHabit(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.habitRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

func (s *habitService) LogHabit(ctx context.Context, userID, id string, day time.Time, completed bool) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	habit, err := s.habitRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return s.log(ctx, habit, day, completed)
}

func (s *habitService) LogHabitByTitle(ctx context.Context, userID, fragment string, completed bool) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if fragment == "" {
		return nil, domain.ErrInvalidInput
	}
	habit, err := s.habitRepo.FindByTitle(ctx, userID, fragment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find habit by title: %w", err)
	}
	return s.log(ctx, habit, time.Now(), completed)
}

func (s *habitService) log(ctx context.Context, habit *domain.Habit, day time.Time, completed bool) (*domain.Habit, error) {
	day = midnight(day)

	wasCompleted := false
	prev, err := s.habitRepo.GetLogForDay(ctx, habit.ID, day)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get habit log: %w", err)
	}
	if prev != nil {
		wasCompleted = prev.Completed
	}

	entry := &domain.HabitLog{
		HabitID:   habit.ID,
		Date:      day,
		Completed: completed,
	}
	if err := s.habitRepo.UpsertLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("upsert habit log: %w", err)
	}

	switch {
	case completed && !wasCompleted:
		habit.CurrentStreak++
		habit.TotalCompleted++
		if habit.CurrentStreak > habit.LongestStreak {
			habit.LongestStreak = habit.CurrentStreak
		}
	case !completed && wasCompleted:
		// Undoing a completion breaks the streak.
		habit.CurrentStreak = 0
		if habit.TotalCompleted > 0 {
			habit.TotalCompleted--
		}
	}
	habit.UpdatedAt = time.Now()
	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return habit, nil
}

// midnight truncates t to the start of its calendar day in its own location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
