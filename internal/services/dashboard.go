package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"dayplanner/internal/domain"
)

type dashboardService struct {
	events         domain.EventService
	taskRepo       domain.TaskRepository
	habitRepo      domain.HabitRepository
	reminderRepo   domain.ReminderRepository
	loc            *time.Location
	contextTimeout time.Duration
}

func NewDashboardService(events domain.EventService, taskRepo domain.TaskRepository, habitRepo domain.HabitRepository, reminderRepo domain.ReminderRepository, loc *time.Location, timeout time.Duration) domain.DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		events:         events,
		taskRepo:       taskRepo,
		habitRepo:      habitRepo,
		reminderRepo:   reminderRepo,
		loc:            loc,
		contextTimeout: timeout,
	}
}

func (s *dashboardService) GetOverview(ctx context.Context, userID string, now time.Time) (*domain.DashboardData, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	local := now.In(s.loc)
	y, m, d := local.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekEnd := dayStart.AddDate(0, 0, 7)

	var (
		todayEvents    []*domain.Event
		upcomingEvents []*domain.Event
		tasks          []*domain.Task
		habits         []*domain.Habit
		reminders      []*domain.Reminder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todayEvents, err = s.events.ListEvents(gctx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("today events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		upcomingEvents, err = s.events.ListEvents(gctx, userID, dayEnd, weekEnd)
		if err != nil {
			return fmt.Errorf("upcoming events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.List(gctx, userID, domain.TaskFilter{})
		if err != nil {
			return fmt.Errorf("tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		habits, err = s.habitRepo.ListActive(gctx, userID)
		if err != nil {
			return fmt.Errorf("habits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reminders, err = s.reminderRepo.ListActive(gctx, userID)
		if err != nil {
			return fmt.Errorf("reminders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pending, highPriority int
	for _, t := range tasks {
		if t.Status == domain.TaskStatusCompleted {
			continue
		}
		pending++
		if t.Priority == domain.PriorityHigh {
			highPriority++
		}
	}

	habitsCompleted := 0
	for _, h := range habits {
		entry, err := s.habitRepo.GetLogForDay(ctx, h.ID, dayStart)
		if err != nil {
			continue
		}
		if entry.Completed {
			habitsCompleted++
		}
	}

	upcomingReminders := 0
	for _, r := range reminders {
		if r.NextTrigger != nil && r.NextTrigger.Before(dayEnd) {
			upcomingReminders++
		}
	}

	data := &domain.DashboardData{
		Overview: domain.DashboardOverview{
			TodayEventsCount:     len(todayEvents),
			PendingTasks:         pending,
			HighPriorityTasks:    highPriority,
			HabitsToday:          len(habits),
			HabitsCompletedToday: habitsCompleted,
			UpcomingReminders:    upcomingReminders,
			ProductivityScore:    productivityScore(tasks, len(habits), habitsCompleted),
		},
		TodayEvents:       todayEvents,
		UpcomingEvents:    upcomingEvents,
		Tasks:             tasks,
		Habits:            habits,
		UpcomingReminders: reminders,
	}
	return data, nil
}

// productivityScore blends today's task completion ratio and habit completion
// ratio, each worth half of the 0-100 scale.
func productivityScore(tasks []*domain.Task, habitCount, habitsCompleted int) int {
	var taskScore, habitScore float64

	total := len(tasks)
	if total > 0 {
		completed := 0
		for _, t := range tasks {
			if t.Status == domain.TaskStatusCompleted {
				completed++
			}
		}
		taskScore = float64(completed) / float64(total)
	}
	if habitCount > 0 {
		habitScore = float64(habitsCompleted) / float64(habitCount)
	}
	return int(taskScore*50 + habitScore*50)
}

func (s *dashboardService) GetInsights(ctx context.Context, userID string, days int, now time.Time) (*domain.ProductivityInsights, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if days <= 0 {
		days = 7
	}
	since := now.In(s.loc).AddDate(0, 0, -days)

	var (
		completed []*domain.Task
		habits    []*domain.Habit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completed, err = s.taskRepo.ListCompletedSince(gctx, userID, since)
		if err != nil {
			return fmt.Errorf("completed tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		habits, err = s.habitRepo.ListActive(gctx, userID)
		if err != nil {
			return fmt.Errorf("habits: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	priorities := map[string]int{
		domain.PriorityLow:    0,
		domain.PriorityMedium: 0,
		domain.PriorityHigh:   0,
	}
	for _, t := range completed {
		if t.CompletedAt != nil {
			byDay[t.CompletedAt.In(s.loc).Format("2006-01-02")]++
		}
		priorities[t.Priority]++
	}

	bestDay := ""
	bestCount := 0
	dayKeys := make([]string, 0, len(byDay))
	for k := range byDay {
		dayKeys = append(dayKeys, k)
	}
	sort.Strings(dayKeys)
	for _, k := range dayKeys {
		if byDay[k] > bestCount {
			bestDay, bestCount = k, byDay[k]
		}
	}

	streaks := make([]domain.HabitStreak, 0, len(habits))
	for _, h := range habits {
		streaks = append(streaks, domain.HabitStreak{
			Title:         h.Title,
			CurrentStreak: h.CurrentStreak,
			LongestStreak: h.LongestStreak,
		})
	}

	return &domain.ProductivityInsights{
		TotalCompleted:       len(completed),
		AveragePerDay:        float64(len(completed)) / float64(days),
		BestDay:              bestDay,
		HabitStreaks:         streaks,
		PriorityDistribution: priorities,
	}, nil
}
