package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dayplanner/internal/domain"
)

const assistantSystemPrompt = `You are a scheduling assistant for a personal day planner.
Today is %s (%s). The user's timezone is %s.

Reply with a single JSON object and nothing else. Choose exactly one action:

{"action":"create_event","event":{"title":"...","date":"<RFC 3339 or today/tomorrow or weekday name>","duration":<minutes>,"priority":"low|medium|high","notes":"...","repeat":"none|daily|weekly|monthly|yearly"},"message":"<confirmation for the user>"}
{"action":"list_events","period":"today|tomorrow|week","message":"..."}
{"action":"get_free_time","date":"<date>","message":"..."}
{"action":"create_task","task":{"title":"...","description":"...","priority":"low|medium|high","dueDate":"<date>","category":"..."},"message":"..."}
{"action":"list_tasks","filter":{"status":"pending|in-progress|completed","priority":"low|medium|high"},"message":"..."}
{"action":"complete_task","search":"<title fragment>","message":"..."}
{"action":"create_reminder","reminder":{"title":"...","type":"medicine|meeting|water|sleep|exercise|custom","time":"HH:mm","repeat":"once|daily|weekly|monthly","priority":"low|medium|high"},"message":"..."}
{"action":"list_reminders","message":"..."}
{"action":"create_habit","habit":{"title":"...","icon":"...","frequency":"daily|weekly|custom","reminderTime":"HH:mm"},"message":"..."}
{"action":"log_habit","search":"<title fragment>","completed":true,"message":"..."}
{"action":"list_habits","message":"..."}
{"action":"get_schedule","date":"<date>","message":"..."}
{"action":"chat","message":"<your answer>"}

Use "chat" for anything that is not one of the commands above.`

const agendaSystemPrompt = `You are a meeting preparation assistant. Reply with a single JSON object and nothing else, shaped as:
{"agenda":[{"time":"HH:mm","topic":"...","notes":"..."}],"preparation":["..."],"objectives":["..."]}
Split the meeting into sensible agenda segments that fit its duration.`

type assistantService struct {
	completer      domain.ChatCompleter
	events         domain.EventService
	tasks          domain.TaskService
	habits         domain.HabitService
	reminders      domain.ReminderService
	schedule       domain.ScheduleService
	loc            *time.Location
	contextTimeout time.Duration
}

func NewAssistantService(completer domain.ChatCompleter, events domain.EventService, tasks domain.TaskService, habits domain.HabitService, reminders domain.ReminderService, schedule domain.ScheduleService, loc *time.Location, timeout time.Duration) domain.AssistantService {
	if loc == nil {
		loc = time.Local
	}
	return &assistantService{
		completer:      completer,
		events:         events,
		tasks:          tasks,
		habits:         habits,
		reminders:      reminders,
		schedule:       schedule,
		loc:            loc,
		contextTimeout: timeout,
	}
}

func (s *assistantService) Ask(ctx context.Context, userID, message string) (*domain.AssistantReply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("empty message: %w", domain.ErrInvalidInput)
	}

	now := time.Now().In(s.loc)
	prompt := fmt.Sprintf(assistantSystemPrompt, now.Format("2006-01-02"), now.Format("Monday"), s.loc.String())
	raw, err := s.completer.Complete(ctx, prompt, message)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	action, ok := decodeAction(raw)
	if !ok {
		// Model ignored the protocol; hand its text back as plain chat.
		return &domain.AssistantReply{Reply: strings.TrimSpace(raw), Action: domain.ActionChat, Success: true}, nil
	}
	return s.dispatch(ctx, userID, action, now)
}

// decodeAction extracts the JSON action object from a model reply, tolerating
// markdown code fences and surrounding prose.
func decodeAction(raw string) (*domain.AssistantAction, bool) {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+3:]
		text = strings.TrimPrefix(text, "json")
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var action domain.AssistantAction
	if err := json.Unmarshal([]byte(text[start:end+1]), &action); err != nil {
		return nil, false
	}
	if action.Action == "" {
		return nil, false
	}
	return &action, true
}

func (s *assistantService) dispatch(ctx context.Context, userID string, action *domain.AssistantAction, now time.Time) (*domain.AssistantReply, error) {
	reply := &domain.AssistantReply{Action: action.Action, Reply: action.Message, Success: true}

	fail := func(err error) (*domain.AssistantReply, error) {
		if errors.Is(err, domain.ErrNotFound) {
			reply.Success = false
			reply.Reply = "I couldn't find what you were referring to."
			return reply, nil
		}
		return nil, err
	}

	switch action.Action {
	case domain.ActionChat, "":
		if reply.Reply == "" {
			reply.Reply = "How can I help with your schedule?"
		}

	case domain.ActionCreateEvent:
		if action.Event == nil || action.Event.Title == "" {
			return nil, fmt.Errorf("event payload missing: %w", domain.ErrInvalidInput)
		}
		start := s.resolveWhen(action.Event.Date, now)
		event := domain.NewEvent(userID, action.Event.Title, start, action.Event.DurationMinutes, now, now)
		if action.Event.Priority != "" {
			event.Priority = action.Event.Priority
		}
		if action.Event.Repeat != "" {
			event.Repeat = action.Event.Repeat
		}
		event.Notes = action.Event.Notes
		if err := s.events.CreateEvent(ctx, event); err != nil {
			return fail(err)
		}
		reply.Data = event
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Added %q on %s.", event.Title, start.Format("Mon, Jan 2 at 15:04"))
		}

	case domain.ActionListEvents:
		from, to := s.periodRange(action.Period, now)
		events, err := s.events.ListEvents(ctx, userID, from, to)
		if err != nil {
			return fail(err)
		}
		reply.Data = events
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("You have %d event(s).", len(events))
		}

	case domain.ActionGetFreeTime:
		slots, err := s.schedule.GetFreeTime(ctx, userID, domain.FreeTimeQuery{Date: s.resolveWhen(action.Date, now)})
		if err != nil {
			return fail(err)
		}
		reply.Data = slots
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Found %d free slot(s).", len(slots))
		}

	case domain.ActionCreateTask:
		if action.Task == nil || action.Task.Title == "" {
			return nil, fmt.Errorf("task payload missing: %w", domain.ErrInvalidInput)
		}
		task := domain.NewTask(userID, action.Task.Title, now, now)
		task.Description = action.Task.Description
		if action.Task.Priority != "" {
			task.Priority = action.Task.Priority
		}
		if action.Task.Category != "" {
			task.Category = action.Task.Category
		}
		if action.Task.DueDate != "" {
			due := s.resolveWhen(action.Task.DueDate, now)
			task.DueDate = &due
		}
		if err := s.tasks.CreateTask(ctx, task); err != nil {
			return fail(err)
		}
		reply.Data = task
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Added task %q.", task.Title)
		}

	case domain.ActionListTasks:
		filter := domain.TaskFilter{}
		if action.Filter != nil {
			filter.Status = action.Filter.Status
			filter.Priority = action.Filter.Priority
		}
		tasks, err := s.tasks.ListTasks(ctx, userID, filter)
		if err != nil {
			return fail(err)
		}
		reply.Data = tasks
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("You have %d task(s).", len(tasks))
		}

	case domain.ActionCompleteTask:
		task, err := s.tasks.CompleteTaskByTitle(ctx, userID, action.Search)
		if err != nil {
			return fail(err)
		}
		reply.Data = task
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Marked %q as done.", task.Title)
		}

	case domain.ActionCreateReminder:
		if action.Reminder == nil || action.Reminder.Title == "" {
			return nil, fmt.Errorf("reminder payload missing: %w", domain.ErrInvalidInput)
		}
		reminder := domain.NewReminder(userID, action.Reminder.Title, action.Reminder.TimeOfDay, now, now)
		if action.Reminder.Type != "" {
			reminder.Type = action.Reminder.Type
		}
		if action.Reminder.Repeat != "" {
			reminder.Repeat = action.Reminder.Repeat
		}
		if action.Reminder.Priority != "" {
			reminder.Priority = action.Reminder.Priority
		}
		if err := s.reminders.CreateReminder(ctx, reminder); err != nil {
			return fail(err)
		}
		reply.Data = reminder
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Reminder %q set for %s.", reminder.Title, reminder.TimeOfDay)
		}

	case domain.ActionListReminders:
		reminders, err := s.reminders.ListReminders(ctx, userID)
		if err != nil {
			return fail(err)
		}
		reply.Data = reminders
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("You have %d active reminder(s).", len(reminders))
		}

	case domain.ActionCreateHabit:
		if action.Habit == nil || action.Habit.Title == "" {
			return nil, fmt.Errorf("habit payload missing: %w", domain.ErrInvalidInput)
		}
		habit := domain.NewHabit(userID, action.Habit.Title, now, now)
		if action.Habit.Icon != "" {
			habit.Icon = action.Habit.Icon
		}
		if action.Habit.Frequency != "" {
			habit.Frequency = action.Habit.Frequency
		}
		habit.ReminderTime = action.Habit.ReminderTime
		if err := s.habits.CreateHabit(ctx, habit); err != nil {
			return fail(err)
		}
		reply.Data = habit
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Started tracking habit %q.", habit.Title)
		}

	case domain.ActionLogHabit:
		completed := true
		if action.Completed != nil {
			completed = *action.Completed
		}
		habit, err := s.habits.LogHabitByTitle(ctx, userID, action.Search, completed)
		if err != nil {
			return fail(err)
		}
		reply.Data = habit
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("Logged %q. Current streak: %d.", habit.Title, habit.CurrentStreak)
		}

	case domain.ActionListHabits:
		habits, err := s.habits.ListHabits(ctx, userID)
		if err != nil {
			return fail(err)
		}
		reply.Data = habits
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("You are tracking %d habit(s).", len(habits))
		}

	case domain.ActionGetSchedule:
		day := s.resolveWhen(action.Date, now)
		from, to := s.periodRange("today", day)
		events, err := s.events.ListEvents(ctx, userID, from, to)
		if err != nil {
			return fail(err)
		}
		slots, err := s.schedule.GetFreeTime(ctx, userID, domain.FreeTimeQuery{Date: day})
		if err != nil {
			return fail(err)
		}
		reply.Data = map[string]any{"events": events, "free_slots": slots}
		if reply.Reply == "" {
			reply.Reply = fmt.Sprintf("%d event(s) and %d free slot(s) on %s.", len(events), len(slots), day.Format("Mon, Jan 2"))
		}

	default:
		reply.Action = domain.ActionChat
		if reply.Reply == "" {
			reply.Reply = "I didn't understand that. Try asking about your events, tasks, habits or reminders."
		}
	}
	return reply, nil
}

// resolveWhen turns a model-provided date string into a concrete time.
// Supports RFC 3339, date-only, date-and-time, relative keywords and weekday
// names; anything unparseable falls back to now.
func (s *assistantService) resolveWhen(v string, now time.Time) time.Time {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "", "now":
		return now
	case "today":
		return now
	case "tomorrow":
		return now.AddDate(0, 0, 1)
	}

	weekdays := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	if wd, ok := weekdays[v]; ok {
		days := (int(wd) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return now.AddDate(0, 0, days)
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, strings.ToUpper(v), s.loc); err == nil {
			return t
		}
	}
	return now
}

// periodRange maps a period keyword to a half-open day range.
func (s *assistantService) periodRange(period string, now time.Time) (time.Time, time.Time) {
	local := now.In(s.loc)
	y, m, d := local.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	switch period {
	case "tomorrow":
		return dayStart.AddDate(0, 0, 1), dayStart.AddDate(0, 0, 2)
	case "week":
		return dayStart, dayStart.AddDate(0, 0, 7)
	default:
		return dayStart, dayStart.AddDate(0, 0, 1)
	}
}

func (s *assistantService) GenerateAgenda(ctx context.Context, userID, eventID string) (*domain.MeetingAgenda, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	duration := event.DurationMinutes
	if duration <= 0 {
		duration = domain.DefaultEventDurationMinutes
	}
	request := fmt.Sprintf("Meeting: %q, starting %s, %d minutes long.", event.Title, event.StartTime.In(s.loc).Format("Mon, Jan 2 15:04"), duration)
	if event.Notes != "" {
		request += " Context: " + event.Notes
	}

	raw, err := s.completer.Complete(ctx, agendaSystemPrompt, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	text := strings.TrimSpace(raw)
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	var agenda domain.MeetingAgenda
	if err := json.Unmarshal([]byte(text), &agenda); err != nil {
		return nil, fmt.Errorf("decode agenda: %w", err)
	}

	// Persist the agenda into the event notes so it survives the chat.
	rendered, err := json.MarshalIndent(agenda, "", "  ")
	if err == nil {
		if event.Notes != "" {
			event.Notes += "\n\n"
		}
		event.Notes += "Agenda:\n" + string(rendered)
		if err := s.events.UpdateEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("store agenda: %w", err)
		}
	}
	return &agenda, nil
}
