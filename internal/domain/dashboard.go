package domain

import (
	"context"
	"time"
)

// DashboardOverview aggregates the user's day at a glance.
type DashboardOverview struct {
	TodayEventsCount     int `json:"today_events_count"`
	PendingTasks         int `json:"pending_tasks"`
	HighPriorityTasks    int `json:"high_priority_tasks"`
	HabitsToday          int `json:"habits_today"`
	HabitsCompletedToday int `json:"habits_completed_today"`
	UpcomingReminders    int `json:"upcoming_reminders"`
	ProductivityScore    int `json:"productivity_score"`
}

// DashboardData is the full dashboard payload.
type DashboardData struct {
	Overview          DashboardOverview `json:"overview"`
	TodayEvents       []*Event          `json:"today_events"`
	UpcomingEvents    []*Event          `json:"upcoming_events"`
	Tasks             []*Task           `json:"tasks"`
	Habits            []*Habit          `json:"habits"`
	UpcomingReminders []*Reminder       `json:"upcoming_reminders"`
}

// HabitStreak summarizes one habit's streaks for insights.
type HabitStreak struct {
	Title         string `json:"title"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// ProductivityInsights summarizes recent completion behavior.
type ProductivityInsights struct {
	TotalCompleted       int            `json:"total_completed"`
	AveragePerDay        float64        `json:"average_per_day"`
	BestDay              string         `json:"best_day"`
	HabitStreaks         []HabitStreak  `json:"habit_streaks"`
	PriorityDistribution map[string]int `json:"priority_distribution"`
}

// DashboardService aggregates events, tasks, habits and reminders into
// overview and insight payloads.
type DashboardService interface {
	GetOverview(ctx context.Context, userID string, now time.Time) (*DashboardData, error)
	GetInsights(ctx context.Context, userID string, days int, now time.Time) (*ProductivityInsights, error)
}
