package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
	"dayplanner/internal/scheduling"
)

// FreeTimeSuccessResponse is the success response envelope for GET /schedule/free-time.
type FreeTimeSuccessResponse struct {
	Data  []scheduling.FreeSlot `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SuggestSuccessResponse is the success response envelope for GET /schedule/suggest.
type SuggestSuccessResponse struct {
	Data  *domain.SlotSuggestion `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ConflictsSuccessResponse is the success response envelope for GET /schedule/conflicts.
type ConflictsSuccessResponse struct {
	Data  *domain.ConflictReport `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// AvailabilitySuccessResponse is the success response envelope for GET /schedule/availability.
type AvailabilitySuccessResponse struct {
	Data  []domain.DayAvailability `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// WorkloadSuccessResponse is the success response envelope for GET /schedule/workload.
type WorkloadSuccessResponse struct {
	Data  map[string]domain.DayWorkload `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// AddBuffersRequest is the request body for POST /events/{id}/buffers.
// Zero values fall back to defaults derived from event_type.
type AddBuffersRequest struct {
	TravelMinutes        int    `json:"travel_minutes"`
	DecompressionMinutes int    `json:"decompression_minutes"`
	EventType            string `json:"event_type"`
}

// Validate implements Validator.
func (a AddBuffersRequest) Validate() []string {
	var errs []string
	if a.TravelMinutes < 0 {
		errs = append(errs, "travel_minutes cannot be negative")
	}
	if a.DecompressionMinutes < 0 {
		errs = append(errs, "decompression_minutes cannot be negative")
	}
	return errs
}

// ScheduleController handles free-time, conflict, and workload endpoints.
type ScheduleController struct {
	Logger   *slog.Logger
	Service  domain.ScheduleService
	Location *time.Location
}

// NewScheduleController creates a ScheduleController.
func NewScheduleController(logger *slog.Logger, svc domain.ScheduleService, loc *time.Location) *ScheduleController {
	return &ScheduleController{
		Logger:   logger,
		Service:  svc,
		Location: loc,
	}
}

// FreeTime godoc
// @Summary Find free time
// @Description List open slots in a day window. The window comes from a preset (morning, afternoon, evening, any, workday) or explicit start_hour/end_hour; slots shorter than min_duration (default 30) are dropped.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day to scan (YYYY-MM-DD, defaults to today)"
// @Param preset query string false "Window preset name"
// @Param start_hour query int false "Window start hour (0-23), overrides preset together with end_hour"
// @Param end_hour query int false "Window end hour (1-24)"
// @Param min_duration query int false "Minimum slot length in minutes (default 30)"
// @Success 200 {object} controllers.FreeTimeSuccessResponse "data contains the free slots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/free-time [get]
func (c *ScheduleController) FreeTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	date, err := parseDateParam(r, "date", c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date: "+err.Error())
		return
	}
	q := domain.FreeTimeQuery{
		Date:   date,
		Preset: r.URL.Query().Get("preset"),
	}
	if q.StartHour, err = intParam(r, "start_hour", 0); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if q.EndHour, err = intParam(r, "end_hour", 0); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if q.MinDurationMinutes, err = intParam(r, "min_duration", 0); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	slots, err := c.Service.GetFreeTime(r.Context(), userID, q)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

// Suggest godoc
// @Summary Suggest a slot
// @Description Find the earliest slot of at least the requested duration (default 60) in the preferred window of a day. An empty result is reported in the payload, not as an error.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day to scan (YYYY-MM-DD, defaults to today)"
// @Param duration query int false "Required duration in minutes (default 60)"
// @Param preferred query string false "Preferred window preset (default any)"
// @Param title query string false "Title of the activity being placed"
// @Success 200 {object} controllers.SuggestSuccessResponse "data contains the suggestion"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/suggest [get]
func (c *ScheduleController) Suggest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	date, err := parseDateParam(r, "date", c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date: "+err.Error())
		return
	}
	duration, err := intParam(r, "duration", 0)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	suggestion, err := c.Service.SuggestSlot(r.Context(), userID, r.URL.Query().Get("title"), date, r.URL.Query().Get("preferred"), duration)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, suggestion)
}

// Conflicts godoc
// @Summary Detect schedule conflicts
// @Description Scan a day's events for overlapping pairs. With resolve=true, conflicts are resolved by priority (the lower-priority event moves to 5 minutes after the fixed one) and only the resolved count is returned.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day to scan (YYYY-MM-DD, defaults to today)"
// @Param resolve query bool false "Auto-resolve detected conflicts"
// @Success 200 {object} controllers.ConflictsSuccessResponse "data contains the conflict report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/conflicts [get]
func (c *ScheduleController) Conflicts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	date, err := parseDateParam(r, "date", c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date: "+err.Error())
		return
	}
	resolve := r.URL.Query().Get("resolve") == "true"

	report, err := c.Service.GetConflicts(r.Context(), userID, date, resolve)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Availability godoc
// @Summary List availability over a date range
// @Description List free slots per day during workday hours for each day in [start, end] inclusive.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param start query string false "Range start (YYYY-MM-DD, defaults to today)"
// @Param end query string false "Range end (YYYY-MM-DD, defaults to start plus 6 days)"
// @Param slot_minutes query int false "Minimum slot length in minutes (default 30)"
// @Success 200 {object} controllers.AvailabilitySuccessResponse "data contains one entry per day"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/availability [get]
func (c *ScheduleController) Availability(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	start, end, err := c.spanParams(r, 6)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	slotMinutes, err := intParam(r, "slot_minutes", 0)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	days, err := c.Service.Availability(r.Context(), userID, start, end, slotMinutes)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, days)
}

// Workload godoc
// @Summary Workload heatmap
// @Description Score each day in [start, end] from its events and due tasks. Scores are 0-100 with levels light, moderate, busy, and overloaded.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param start query string false "Range start (YYYY-MM-DD, defaults to today)"
// @Param end query string false "Range end (YYYY-MM-DD, defaults to start plus 6 days)"
// @Success 200 {object} controllers.WorkloadSuccessResponse "data maps YYYY-MM-DD to its workload"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/workload [get]
func (c *ScheduleController) Workload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	start, end, err := c.spanParams(r, 6)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	heatmap, err := c.Service.WorkloadHeatmap(r.Context(), userID, start, end)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, heatmap)
}

// AddBuffers godoc
// @Summary Add buffer events around an event
// @Description Create linked travel and decompression buffer events before and after an event. Zero durations fall back to defaults derived from event_type.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body AddBuffersRequest true "Buffer options"
// @Success 201 {object} controllers.EventListSuccessResponse "data contains the created buffer events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/buffers [post]
func (c *ScheduleController) AddBuffers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req AddBuffersRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	buffers, err := c.Service.AddBuffers(r.Context(), userID, r.PathValue("id"), domain.BufferOptions{
		TravelMinutes:        req.TravelMinutes,
		DecompressionMinutes: req.DecompressionMinutes,
		EventType:            req.EventType,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, buffers)
}

// spanParams parses start/end query dates; start defaults to today and end
// defaults to start plus defaultDays.
func (c *ScheduleController) spanParams(r *http.Request, defaultDays int) (time.Time, time.Time, error) {
	start, err := parseDateParam(r, "start", c.Location)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end := start.AddDate(0, 0, defaultDays)
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err = time.ParseInLocation(dateLayout, raw, c.Location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date is before start date")
	}
	return start, end, nil
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
