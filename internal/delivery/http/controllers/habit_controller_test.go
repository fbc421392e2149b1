package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dayplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHabitService implements domain.HabitService for handler tests.
type fakeHabitService struct {
	habit         *domain.Habit
	err           error
	lastDay       time.Time
	lastCompleted bool
}

func (f *fakeHabitService) CreateHabit(ctx context.Context, habit *domain.Habit) error {
	if f.err != nil {
		return f.err
	}
	habit.ID = "h1"
	f.habit = habit
	return nil
}

func (f *fakeHabitService) GetHabit(ctx context.Context, userID, id string) (*domain.Habit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.habit, nil
}

func (f *fakeHabitService) ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.Habit{f.habit}, nil
}

func (f *fakeHabitService) UpdateHabit(ctx context.Context, habit *domain.Habit) error {
	f.habit = habit
	return f.err
}

func (f *fakeHabitService) DeleteHabit(ctx context.Context, userID, id string) error {
	return f.err
}

func (f *fakeHabitService) LogHabit(ctx context.Context, userID, id string, day time.Time, completed bool) (*domain.Habit, error) {
	f.lastDay = day
	f.lastCompleted = completed
	if f.err != nil {
		return nil, f.err
	}
	return f.habit, nil
}

func (f *fakeHabitService) LogHabitByTitle(ctx context.Context, userID, fragment string, completed bool) (*domain.Habit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.habit, nil
}

func TestHabitController_Log(t *testing.T) {
	habit := &domain.Habit{ID: "h1", UserID: "user-1", Title: "Read", CurrentStreak: 3}

	t.Run("explicit date and completion", func(t *testing.T) {
		fake := &fakeHabitService{habit: habit}
		ctrl := NewHabitController(testLogger(), fake, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits/h1/log", `{"date":"2025-03-10","completed":false}`)
		req.SetPathValue("id", "h1")
		rr := httptest.NewRecorder()

		ctrl.Log(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), fake.lastDay)
		assert.False(t, fake.lastCompleted)
	})

	t.Run("completed defaults to true", func(t *testing.T) {
		fake := &fakeHabitService{habit: habit}
		ctrl := NewHabitController(testLogger(), fake, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits/h1/log", `{}`)
		req.SetPathValue("id", "h1")
		rr := httptest.NewRecorder()

		ctrl.Log(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, fake.lastCompleted)
	})

	t.Run("malformed date", func(t *testing.T) {
		ctrl := NewHabitController(testLogger(), &fakeHabitService{habit: habit}, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits/h1/log", `{"date":"yesterday"}`)
		req.SetPathValue("id", "h1")
		rr := httptest.NewRecorder()

		ctrl.Log(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown habit", func(t *testing.T) {
		fake := &fakeHabitService{err: domain.ErrNotFound}
		ctrl := NewHabitController(testLogger(), fake, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits/missing/log", `{}`)
		req.SetPathValue("id", "missing")
		rr := httptest.NewRecorder()

		ctrl.Log(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHabitController_Create(t *testing.T) {
	t.Run("bad frequency rejected", func(t *testing.T) {
		ctrl := NewHabitController(testLogger(), &fakeHabitService{}, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits", `{"title":"Read","frequency":"hourly"}`)
		rr := httptest.NewRecorder()

		ctrl.Create(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeHabitService{}
		ctrl := NewHabitController(testLogger(), fake, time.UTC)

		req := authedRequest(http.MethodPost, "http://test/habits", `{"title":"Read","reminder_time":"21:30"}`)
		rr := httptest.NewRecorder()

		ctrl.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, fake.habit)
		assert.Equal(t, "user-1", fake.habit.UserID)
		assert.Equal(t, "21:30", fake.habit.ReminderTime)
	})
}
