package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplanner/internal/domain"
)

type assistantFixture struct {
	completer *fakeCompleter
	eventRepo *fakeEventRepo
	taskRepo  *fakeTaskRepo
	habitRepo *fakeHabitRepo
	svc       domain.AssistantService
}

func newAssistantFixture() *assistantFixture {
	completer := &fakeCompleter{}
	eventRepo := newFakeEventRepo()
	taskRepo := newFakeTaskRepo()
	habitRepo := newFakeHabitRepo()
	reminderRepo := newFakeReminderRepo()
	userRepo := newFakeUserRepo()

	events := NewEventService(eventRepo, testTimeout)
	tasks := NewTaskService(taskRepo, testTimeout)
	habits := NewHabitService(habitRepo, testTimeout)
	reminders := NewReminderService(reminderRepo, userRepo, &fakeNotifier{}, time.UTC, discardLogger(), testTimeout)
	schedule := NewScheduleService(events, eventRepo, taskRepo, nil, time.UTC, testTimeout)
	svc := NewAssistantService(completer, events, tasks, habits, reminders, schedule, time.UTC, testTimeout)

	return &assistantFixture{
		completer: completer,
		eventRepo: eventRepo,
		taskRepo:  taskRepo,
		habitRepo: habitRepo,
		svc:       svc,
	}
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ok     bool
		action string
	}{
		{
			name:   "bare json",
			raw:    `{"action":"chat","message":"hi"}`,
			ok:     true,
			action: "chat",
		},
		{
			name:   "fenced json",
			raw:    "```json\n{\"action\":\"list_tasks\"}\n```",
			ok:     true,
			action: "list_tasks",
		},
		{
			name:   "json buried in prose",
			raw:    "Sure! Here you go: {\"action\":\"list_events\",\"period\":\"week\"} Hope that helps.",
			ok:     true,
			action: "list_events",
		},
		{
			name: "plain prose",
			raw:  "I cannot answer that.",
			ok:   false,
		},
		{
			name: "json without an action",
			raw:  `{"message":"hi"}`,
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := decodeAction(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.action, action.Action)
			}
		})
	}
}

func TestAsk(t *testing.T) {
	t.Run("create_event stores the event", func(t *testing.T) {
		f := newAssistantFixture()
		f.completer.reply = `{"action":"create_event","event":{"title":"Dentist","date":"2025-04-01T15:00:00Z","duration":45,"priority":"high"},"message":"Booked it."}`

		reply, err := f.svc.Ask(context.Background(), "u1", "book a dentist appointment")
		require.NoError(t, err)
		assert.Equal(t, domain.ActionCreateEvent, reply.Action)
		assert.Equal(t, "Booked it.", reply.Reply)
		assert.True(t, reply.Success)

		created, ok := reply.Data.(*domain.Event)
		require.True(t, ok)
		assert.Equal(t, "Dentist", created.Title)
		assert.Equal(t, 45, created.DurationMinutes)
		assert.Equal(t, domain.PriorityHigh, created.Priority)

		stored, err := f.eventRepo.GetByID(context.Background(), "u1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC), stored.StartTime)
	})

	t.Run("complete_task resolves by title fragment", func(t *testing.T) {
		f := newAssistantFixture()
		task := &domain.Task{UserID: "u1", Title: "Send the invoice"}
		require.NoError(t, f.taskRepo.Create(context.Background(), task))
		task.Status = domain.TaskStatusPending
		f.completer.reply = `{"action":"complete_task","search":"invoice","message":"Done."}`

		reply, err := f.svc.Ask(context.Background(), "u1", "I sent the invoice")
		require.NoError(t, err)
		assert.True(t, reply.Success)

		stored, err := f.taskRepo.GetByID(context.Background(), "u1", task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, stored.Status)
	})

	t.Run("missing target turns into a polite failure", func(t *testing.T) {
		f := newAssistantFixture()
		f.completer.reply = `{"action":"complete_task","search":"unicorn","message":"Done."}`

		reply, err := f.svc.Ask(context.Background(), "u1", "finish the unicorn task")
		require.NoError(t, err)
		assert.False(t, reply.Success)
		assert.NotEmpty(t, reply.Reply)
	})

	t.Run("log_habit defaults to completed", func(t *testing.T) {
		f := newAssistantFixture()
		habit := &domain.Habit{UserID: "u1", Title: "Morning run", IsActive: true}
		require.NoError(t, f.habitRepo.Create(context.Background(), habit))
		f.completer.reply = `{"action":"log_habit","search":"run"}`

		reply, err := f.svc.Ask(context.Background(), "u1", "went for my run")
		require.NoError(t, err)
		assert.True(t, reply.Success)
		logged, ok := reply.Data.(*domain.Habit)
		require.True(t, ok)
		assert.Equal(t, 1, logged.CurrentStreak)
		assert.Contains(t, reply.Reply, "streak")
	})

	t.Run("non-json reply falls back to chat", func(t *testing.T) {
		f := newAssistantFixture()
		f.completer.reply = "You should take a break this afternoon."

		reply, err := f.svc.Ask(context.Background(), "u1", "any advice?")
		require.NoError(t, err)
		assert.Equal(t, domain.ActionChat, reply.Action)
		assert.Equal(t, "You should take a break this afternoon.", reply.Reply)
		assert.True(t, reply.Success)
	})

	t.Run("get_schedule combines events and free slots", func(t *testing.T) {
		f := newAssistantFixture()
		seedEvent(t, f.eventRepo, "u1", "standup", dayAt(10, 0), 30, domain.PriorityMedium)
		f.completer.reply = `{"action":"get_schedule","date":"2025-03-10"}`

		reply, err := f.svc.Ask(context.Background(), "u1", "what does monday look like?")
		require.NoError(t, err)
		data, ok := reply.Data.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, data, "events")
		assert.Contains(t, data, "free_slots")
	})

	t.Run("empty message is invalid", func(t *testing.T) {
		f := newAssistantFixture()
		_, err := f.svc.Ask(context.Background(), "u1", "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("completer failure propagates", func(t *testing.T) {
		f := newAssistantFixture()
		f.completer.err = assert.AnError
		_, err := f.svc.Ask(context.Background(), "u1", "hello")
		assert.Error(t, err)
	})

	t.Run("system prompt pins the date and protocol", func(t *testing.T) {
		f := newAssistantFixture()
		f.completer.reply = `{"action":"chat","message":"hi"}`
		_, err := f.svc.Ask(context.Background(), "u1", "hello")
		require.NoError(t, err)
		assert.Contains(t, f.completer.lastSystem, time.Now().UTC().Format("2006-01-02"))
		assert.Contains(t, f.completer.lastSystem, `"action":"create_event"`)
	})
}

func TestResolveWhen(t *testing.T) {
	svc := &assistantService{loc: time.UTC}
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) // a Monday

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"today", now},
		{"tomorrow", now.AddDate(0, 0, 1)},
		{"friday", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC)}, // same weekday means next week
		{"2025-04-01", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-04-01T15:30:00Z", time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)},
		{"gibberish", now},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := svc.resolveWhen(tt.in, now)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestGenerateAgenda(t *testing.T) {
	t.Run("parses the agenda and stores it in the notes", func(t *testing.T) {
		f := newAssistantFixture()
		meeting := seedEvent(t, f.eventRepo, "u1", "quarterly review", dayAt(14, 0), 60, domain.PriorityHigh)
		f.completer.reply = `{"agenda":[{"time":"14:00","topic":"Numbers","notes":"Q1 results"}],"preparation":["read the report"],"objectives":["align on targets"]}`

		agenda, err := f.svc.GenerateAgenda(context.Background(), "u1", meeting.ID)
		require.NoError(t, err)
		require.Len(t, agenda.Agenda, 1)
		assert.Equal(t, "Numbers", agenda.Agenda[0].Topic)
		assert.Equal(t, []string{"read the report"}, agenda.Preparation)

		stored, err := f.eventRepo.GetByID(context.Background(), "u1", meeting.ID)
		require.NoError(t, err)
		assert.True(t, strings.Contains(stored.Notes, "Agenda:"))
		assert.Contains(t, f.completer.lastUser, "quarterly review")
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newAssistantFixture()
		_, err := f.svc.GenerateAgenda(context.Background(), "u1", "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed agenda is an error", func(t *testing.T) {
		f := newAssistantFixture()
		meeting := seedEvent(t, f.eventRepo, "u1", "sync", dayAt(14, 0), 30, domain.PriorityMedium)
		f.completer.reply = "no json here"

		_, err := f.svc.GenerateAgenda(context.Background(), "u1", meeting.ID)
		assert.Error(t, err)
	})
}
