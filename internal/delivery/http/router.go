package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"dayplanner/internal/delivery/http/controllers"
)

// Controllers groups the handler sets wired into the router.
type Controllers struct {
	Auth      *controllers.AuthController
	Event     *controllers.EventController
	Task      *controllers.TaskController
	Habit     *controllers.HabitController
	Reminder  *controllers.ReminderController
	Schedule  *controllers.ScheduleController
	Dashboard *controllers.DashboardController
	Assistant *controllers.AssistantController
}

// NewRouter initializes the HTTP router with all application routes. auth is
// the RequireAuth middleware; everything except signup, login, health, and
// swagger runs behind it.
func NewRouter(c Controllers, auth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.Create))
	mux.HandleFunc("GET /events", auth(c.Event.List))
	mux.HandleFunc("GET /events/export", auth(c.Event.Export))
	mux.HandleFunc("GET /events/{id}", auth(c.Event.Get))
	mux.HandleFunc("PATCH /events/{id}", auth(c.Event.Update))
	mux.HandleFunc("DELETE /events/{id}", auth(c.Event.Delete))
	mux.HandleFunc("POST /events/{id}/buffers", auth(c.Schedule.AddBuffers))
	mux.HandleFunc("POST /events/{id}/agenda", auth(c.Assistant.GenerateAgenda))

	// Tasks
	mux.HandleFunc("POST /tasks", auth(c.Task.Create))
	mux.HandleFunc("GET /tasks", auth(c.Task.List))
	mux.HandleFunc("GET /tasks/{id}", auth(c.Task.Get))
	mux.HandleFunc("PATCH /tasks/{id}", auth(c.Task.Update))
	mux.HandleFunc("DELETE /tasks/{id}", auth(c.Task.Delete))
	mux.HandleFunc("POST /tasks/{id}/complete", auth(c.Task.Complete))

	// Habits
	mux.HandleFunc("POST /habits", auth(c.Habit.Create))
	mux.HandleFunc("GET /habits", auth(c.Habit.List))
	mux.HandleFunc("GET /habits/{id}", auth(c.Habit.Get))
	mux.HandleFunc("PATCH /habits/{id}", auth(c.Habit.Update))
	mux.HandleFunc("DELETE /habits/{id}", auth(c.Habit.Delete))
	mux.HandleFunc("POST /habits/{id}/log", auth(c.Habit.Log))

	// Reminders
	mux.HandleFunc("POST /reminders", auth(c.Reminder.Create))
	mux.HandleFunc("GET /reminders", auth(c.Reminder.List))
	mux.HandleFunc("GET /reminders/{id}", auth(c.Reminder.Get))
	mux.HandleFunc("PATCH /reminders/{id}", auth(c.Reminder.Update))
	mux.HandleFunc("DELETE /reminders/{id}", auth(c.Reminder.Delete))

	// Schedule
	mux.HandleFunc("GET /schedule/free-time", auth(c.Schedule.FreeTime))
	mux.HandleFunc("GET /schedule/suggest", auth(c.Schedule.Suggest))
	mux.HandleFunc("GET /schedule/conflicts", auth(c.Schedule.Conflicts))
	mux.HandleFunc("GET /schedule/availability", auth(c.Schedule.Availability))
	mux.HandleFunc("GET /schedule/workload", auth(c.Schedule.Workload))

	// Dashboard
	mux.HandleFunc("GET /dashboard", auth(c.Dashboard.Overview))
	mux.HandleFunc("GET /dashboard/insights", auth(c.Dashboard.Insights))

	// Assistant
	mux.HandleFunc("POST /assistant/chat", auth(c.Assistant.Ask))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
