package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

var validFrequencies = map[string]bool{
	domain.HabitFrequencyDaily:  true,
	domain.HabitFrequencyWeekly: true,
	domain.HabitFrequencyCustom: true,
}

// CreateHabitRequest is the request body for POST /habits
type CreateHabitRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	Frequency    string `json:"frequency"`
	TargetDays   []int  `json:"target_days"`
	ReminderTime string `json:"reminder_time"`
}

// Validate implements Validator.
func (c CreateHabitRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Frequency != "" && !validFrequencies[c.Frequency] {
		errs = append(errs, "frequency must be daily, weekly, or custom")
	}
	for _, d := range c.TargetDays {
		if d < 0 || d > 6 {
			errs = append(errs, "target_days values must be 0-6")
			break
		}
	}
	if c.ReminderTime != "" {
		if _, err := time.Parse("15:04", c.ReminderTime); err != nil {
			errs = append(errs, "reminder_time must be HH:mm")
		}
	}
	return errs
}

// UpdateHabitRequest is the request body for PATCH /habits/{id}. All fields are optional.
type UpdateHabitRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	Frequency    *string `json:"frequency"`
	TargetDays   []int   `json:"target_days"`
	ReminderTime *string `json:"reminder_time"`
	IsActive     *bool   `json:"is_active"`
}

// Validate implements Validator.
func (u UpdateHabitRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Frequency != nil && !validFrequencies[*u.Frequency] {
		errs = append(errs, "frequency must be daily, weekly, or custom")
	}
	if u.ReminderTime != nil && *u.ReminderTime != "" {
		if _, err := time.Parse("15:04", *u.ReminderTime); err != nil {
			errs = append(errs, "reminder_time must be HH:mm")
		}
	}
	return errs
}

// LogHabitRequest is the request body for POST /habits/{id}/log
type LogHabitRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD, defaults to today
	Completed *bool  `json:"completed"`
	Notes     string `json:"notes"`
}

// Validate implements Validator.
func (l LogHabitRequest) Validate() []string {
	var errs []string
	if l.Date != "" {
		if _, err := time.Parse(dateLayout, l.Date); err != nil {
			errs = append(errs, "date must be YYYY-MM-DD")
		}
	}
	return errs
}

// HabitSuccessResponse is the success response envelope for single-habit endpoints.
type HabitSuccessResponse struct {
	Data  *domain.Habit     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// HabitListSuccessResponse is the success response envelope for GET /habits.
type HabitListSuccessResponse struct {
	Data  []*domain.Habit   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// HabitController handles habit endpoints.
type HabitController struct {
	Logger   *slog.Logger
	Service  domain.HabitService
	Location *time.Location
}

// NewHabitController creates a HabitController.
func NewHabitController(logger *slog.Logger, svc domain.HabitService, loc *time.Location) *HabitController {
	return &HabitController{
		Logger:   logger,
		Service:  svc,
		Location: loc,
	}
}

// Create godoc
// @Summary Create a habit
// @Description Create a habit. Frequency defaults to daily.
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateHabitRequest true "Habit data"
// @Success 201 {object} controllers.HabitSuccessResponse "data contains the created habit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits [post]
func (c *HabitController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateHabitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	habit := &domain.Habit{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Icon:         req.Icon,
		Color:        req.Color,
		Frequency:    req.Frequency,
		TargetDays:   req.TargetDays,
		ReminderTime: req.ReminderTime,
	}
	if err := c.Service.CreateHabit(r.Context(), habit); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, habit)
}

// List godoc
// @Summary List habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.HabitListSuccessResponse "data contains the habits"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits [get]
func (c *HabitController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	habits, err := c.Service.ListHabits(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, habits)
}

// Get godoc
// @Summary Get a habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 200 {object} controllers.HabitSuccessResponse "data contains the habit"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits/{id} [get]
func (c *HabitController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	habit, err := c.Service.GetHabit(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, habit)
}

// Update godoc
// @Summary Update a habit
// @Description Update a habit. All fields are optional; streak counters are managed by the log endpoint.
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param body body UpdateHabitRequest true "Fields to update"
// @Success 200 {object} controllers.HabitSuccessResponse "data contains the updated habit"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits/{id} [patch]
func (c *HabitController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	habit, err := c.Service.GetHabit(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	if req.Title != nil {
		habit.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.Icon != nil {
		habit.Icon = *req.Icon
	}
	if req.Color != nil {
		habit.Color = *req.Color
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.TargetDays != nil {
		habit.TargetDays = req.TargetDays
	}
	if req.ReminderTime != nil {
		habit.ReminderTime = *req.ReminderTime
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}

	if err := c.Service.UpdateHabit(r.Context(), habit); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, habit)
}

// Log godoc
// @Summary Log habit completion
// @Description Record whether the habit was completed on a day (defaults to today) and update streak counters.
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param body body LogHabitRequest true "Log entry; completed defaults to true"
// @Success 200 {object} controllers.HabitSuccessResponse "data contains the habit with updated streaks"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits/{id}/log [post]
func (c *HabitController) Log(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req LogHabitRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	day := time.Now().In(c.Location)
	if req.Date != "" {
		var err error
		day, err = time.ParseInLocation(dateLayout, req.Date, c.Location)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	habit, err := c.Service.LogHabit(r.Context(), userID, r.PathValue("id"), day, completed)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, habit)
}

// Delete godoc
// @Summary Delete a habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /habits/{id} [delete]
func (c *HabitController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteHabit(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "habit deleted"})
}
