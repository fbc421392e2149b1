package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

var validReminderTypes = map[string]bool{
	domain.ReminderTypeMedicine: true,
	domain.ReminderTypeMeeting:  true,
	domain.ReminderTypeWater:    true,
	domain.ReminderTypeSleep:    true,
	domain.ReminderTypeExercise: true,
	domain.ReminderTypeCustom:   true,
}

var validReminderRepeats = map[string]bool{
	domain.ReminderRepeatOnce:    true,
	domain.ReminderRepeatDaily:   true,
	domain.ReminderRepeatWeekly:  true,
	domain.ReminderRepeatMonthly: true,
}

// CreateReminderRequest is the request body for POST /reminders
type CreateReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	TimeOfDay   string `json:"time_of_day"` // HH:mm
	Repeat      string `json:"repeat"`
	RepeatDays  []int  `json:"repeat_days"`
	Priority    string `json:"priority"`
}

// Validate implements Validator.
func (c CreateReminderRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.TimeOfDay == "" {
		errs = append(errs, "time_of_day is required")
	} else if _, err := time.Parse("15:04", c.TimeOfDay); err != nil {
		errs = append(errs, "time_of_day must be HH:mm")
	}
	if c.Type != "" && !validReminderTypes[c.Type] {
		errs = append(errs, "type must be medicine, meeting, water, sleep, exercise, or custom")
	}
	if c.Repeat != "" && !validReminderRepeats[c.Repeat] {
		errs = append(errs, "repeat must be once, daily, weekly, or monthly")
	}
	if c.Priority != "" && !validPriorities[c.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	return errs
}

// UpdateReminderRequest is the request body for PATCH /reminders/{id}. All fields are optional.
type UpdateReminderRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	TimeOfDay   *string `json:"time_of_day"`
	Repeat      *string `json:"repeat"`
	RepeatDays  []int   `json:"repeat_days"`
	Priority    *string `json:"priority"`
	IsActive    *bool   `json:"is_active"`
}

// Validate implements Validator.
func (u UpdateReminderRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.TimeOfDay != nil {
		if _, err := time.Parse("15:04", *u.TimeOfDay); err != nil {
			errs = append(errs, "time_of_day must be HH:mm")
		}
	}
	if u.Type != nil && !validReminderTypes[*u.Type] {
		errs = append(errs, "type must be medicine, meeting, water, sleep, exercise, or custom")
	}
	if u.Repeat != nil && !validReminderRepeats[*u.Repeat] {
		errs = append(errs, "repeat must be once, daily, weekly, or monthly")
	}
	if u.Priority != nil && !validPriorities[*u.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	return errs
}

// ReminderSuccessResponse is the success response envelope for single-reminder endpoints.
type ReminderSuccessResponse struct {
	Data  *domain.Reminder  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReminderListSuccessResponse is the success response envelope for GET /reminders.
type ReminderListSuccessResponse struct {
	Data  []*domain.Reminder `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ReminderController handles reminder endpoints.
type ReminderController struct {
	Logger  *slog.Logger
	Service domain.ReminderService
}

// NewReminderController creates a ReminderController.
func NewReminderController(logger *slog.Logger, svc domain.ReminderService) *ReminderController {
	return &ReminderController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a reminder
// @Description Create a time-of-day reminder. Repeat defaults to once; the next trigger is computed from the time of day.
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReminderRequest true "Reminder data"
// @Success 201 {object} controllers.ReminderSuccessResponse "data contains the created reminder"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reminders [post]
func (c *ReminderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateReminderRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reminder := &domain.Reminder{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		TimeOfDay:   req.TimeOfDay,
		Repeat:      req.Repeat,
		RepeatDays:  req.RepeatDays,
		Priority:    req.Priority,
	}
	if err := c.Service.CreateReminder(r.Context(), reminder); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, reminder)
}

// List godoc
// @Summary List reminders
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ReminderListSuccessResponse "data contains the active reminders"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reminders [get]
func (c *ReminderController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	reminders, err := c.Service.ListReminders(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reminders)
}

// Get godoc
// @Summary Get a reminder
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} controllers.ReminderSuccessResponse "data contains the reminder"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reminders/{id} [get]
func (c *ReminderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	reminder, err := c.Service.GetReminder(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reminder)
}

// Update godoc
// @Summary Update a reminder
// @Description Update a reminder. Changing the time of day recomputes the next trigger.
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Param body body UpdateReminderRequest true "Fields to update"
// @Success 200 {object} controllers.ReminderSuccessResponse "data contains the updated reminder"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reminders/{id} [patch]
func (c *ReminderController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req UpdateReminderRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reminder, err := c.Service.GetReminder(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	if req.Title != nil {
		reminder.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.Type != nil {
		reminder.Type = *req.Type
	}
	if req.TimeOfDay != nil {
		reminder.TimeOfDay = *req.TimeOfDay
	}
	if req.Repeat != nil {
		reminder.Repeat = *req.Repeat
	}
	if req.RepeatDays != nil {
		reminder.RepeatDays = req.RepeatDays
	}
	if req.Priority != nil {
		reminder.Priority = *req.Priority
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}

	if err := c.Service.UpdateReminder(r.Context(), reminder); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, reminder)
}

// Delete godoc
// @Summary Delete a reminder
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reminders/{id} [delete]
func (c *ReminderController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteReminder(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "reminder deleted"})
}
