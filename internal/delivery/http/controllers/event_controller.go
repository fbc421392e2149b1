package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

var validPriorities = map[string]bool{
	domain.PriorityLow:    true,
	domain.PriorityMedium: true,
	domain.PriorityHigh:   true,
}

var validRepeats = map[string]bool{
	domain.RepeatNone:    true,
	domain.RepeatDaily:   true,
	domain.RepeatWeekly:  true,
	domain.RepeatMonthly: true,
	domain.RepeatYearly:  true,
}

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title           string     `json:"title"`
	StartTime       time.Time  `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Priority        string     `json:"priority"`
	Category        string     `json:"category"`
	Location        string     `json:"location"`
	Notes           string     `json:"notes"`
	ReminderMinutes int        `json:"reminder_minutes"`
	Repeat          string     `json:"repeat"`
	RepeatUntil     *time.Time `json:"repeat_until"`
	AllDay          bool       `json:"all_day"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if c.DurationMinutes < 0 {
		errs = append(errs, "duration_minutes cannot be negative")
	}
	if c.Priority != "" && !validPriorities[c.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	if c.Repeat != "" && !validRepeats[c.Repeat] {
		errs = append(errs, "repeat must be none, daily, weekly, monthly, or yearly")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{id}. All fields are optional.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Priority        *string    `json:"priority"`
	Category        *string    `json:"category"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
	ReminderMinutes *int       `json:"reminder_minutes"`
	Repeat          *string    `json:"repeat"`
	RepeatUntil     *time.Time `json:"repeat_until"`
	AllDay          *bool      `json:"all_day"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Priority != nil && !validPriorities[*u.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	if u.Repeat != nil && !validRepeats[*u.Repeat] {
		errs = append(errs, "repeat must be none, daily, weekly, monthly, or yearly")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventController handles calendar event endpoints.
type EventController struct {
	Logger   *slog.Logger
	Service  domain.EventService
	Location *time.Location
}

// NewEventController creates an EventController.
func NewEventController(logger *slog.Logger, svc domain.EventService, loc *time.Location) *EventController {
	return &EventController{
		Logger:   logger,
		Service:  svc,
		Location: loc,
	}
}

// Create godoc
// @Summary Create an event
// @Description Create a calendar event. Duration defaults to 60 minutes, priority to medium.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event := &domain.Event{
		UserID:          userID,
		Title:           strings.TrimSpace(req.Title),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Priority:        req.Priority,
		Category:        req.Category,
		Location:        req.Location,
		Notes:           req.Notes,
		ReminderMinutes: req.ReminderMinutes,
		Repeat:          req.Repeat,
		RepeatUntil:     req.RepeatUntil,
		AllDay:          req.AllDay,
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List events
// @Description List events in [from, to) with recurring events expanded. Dates are YYYY-MM-DD; from defaults to today, to defaults to from plus 7 days.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	from, to, err := c.rangeParams(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	events, err := c.Service.ListEvents(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an event
// @Description Update an event. All fields are optional; omitted fields are left unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.GetEvent(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		event.DurationMinutes = *req.DurationMinutes
	}
	if req.Priority != nil {
		event.Priority = *req.Priority
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}
	if req.ReminderMinutes != nil {
		event.ReminderMinutes = *req.ReminderMinutes
	}
	if req.Repeat != nil {
		event.Repeat = *req.Repeat
	}
	if req.RepeatUntil != nil {
		event.RepeatUntil = req.RepeatUntil
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}

	if err := c.Service.UpdateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// Export godoc
// @Summary Export events as iCalendar
// @Description Export the events in [from, to) as a text/calendar document with recurrence rules preserved.
// @Tags events
// @Produce plain
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/export [get]
func (c *EventController) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	from, to, err := c.rangeParams(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	ics, err := c.Service.ExportICS(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dayplanner.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

// rangeParams parses from/to query dates; from defaults to today and to
// defaults to from plus seven days.
func (c *EventController) rangeParams(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDateParam(r, "from", c.Location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to := from.AddDate(0, 0, 7)
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err = time.ParseInLocation(dateLayout, raw, c.Location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
		}
		// treat the end date as inclusive
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}
