package domain

import "context"

// Assistant action names. The language model replies with one of these plus
// the matching payload; the assistant service executes it against the
// application services. The model itself is an opaque upstream collaborator.
const (
	ActionChat           = "chat"
	ActionCreateEvent    = "create_event"
	ActionListEvents     = "list_events"
	ActionGetFreeTime    = "get_free_time"
	ActionCreateTask     = "create_task"
	ActionListTasks      = "list_tasks"
	ActionCompleteTask   = "complete_task"
	ActionCreateReminder = "create_reminder"
	ActionListReminders  = "list_reminders"
	ActionCreateHabit    = "create_habit"
	ActionLogHabit       = "log_habit"
	ActionListHabits     = "list_habits"
	ActionGetSchedule    = "get_schedule"
)

// EventDraft is the event payload inside an assistant action.
type EventDraft struct {
	Title           string `json:"title"`
	Date            string `json:"date"` // RFC 3339 or relative keyword
	DurationMinutes int    `json:"duration"`
	Priority        string `json:"priority"`
	Notes           string `json:"notes"`
	Repeat          string `json:"repeat"`
}

// TaskDraft is the task payload inside an assistant action.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
}

// ReminderDraft is the reminder payload inside an assistant action.
type ReminderDraft struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	TimeOfDay string `json:"time"` // HH:mm
	Repeat    string `json:"repeat"`
	Priority  string `json:"priority"`
}

// HabitDraft is the habit payload inside an assistant action.
type HabitDraft struct {
	Title        string `json:"title"`
	Icon         string `json:"icon"`
	Frequency    string `json:"frequency"`
	ReminderTime string `json:"reminderTime"`
}

// ListFilter narrows assistant list actions.
type ListFilter struct {
	Period   string `json:"period"` // today, tomorrow, week
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// AssistantAction is the structured request produced by the language model
// from the user's free-text message.
type AssistantAction struct {
	Action    string         `json:"action"`
	Event     *EventDraft    `json:"event,omitempty"`
	Task      *TaskDraft     `json:"task,omitempty"`
	Reminder  *ReminderDraft `json:"reminder,omitempty"`
	Habit     *HabitDraft    `json:"habit,omitempty"`
	Search    string         `json:"search,omitempty"`
	Completed *bool          `json:"completed,omitempty"`
	Filter    *ListFilter    `json:"filter,omitempty"`
	Period    string         `json:"period,omitempty"`
	Date      string         `json:"date,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// AssistantReply is the assistant's answer to one user message.
type AssistantReply struct {
	Reply   string `json:"reply"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	Success bool   `json:"success"`
}

// MeetingAgenda is the generated agenda for an event.
type MeetingAgenda struct {
	Agenda []struct {
		Time  string `json:"time"`
		Topic string `json:"topic"`
		Notes string `json:"notes"`
	} `json:"agenda"`
	Preparation []string `json:"preparation"`
	Objectives  []string `json:"objectives"`
}

// ChatCompleter is the contract for the chat-completion collaborator. It is
// constructed once at process start and injected; implementations wrap a
// third-party model API.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// AssistantService turns a free-text message into a structured action and
// executes it.
type AssistantService interface {
	Ask(ctx context.Context, userID, message string) (*AssistantReply, error)
	// GenerateAgenda builds a meeting agenda for the event and stores it in the
	// event's notes.
	GenerateAgenda(ctx context.Context, userID, eventID string) (*MeetingAgenda, error)
}
