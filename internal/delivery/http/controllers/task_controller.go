package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

var validTaskStatuses = map[string]bool{
	domain.TaskStatusPending:    true,
	domain.TaskStatusInProgress: true,
	domain.TaskStatusCompleted:  true,
}

// CreateTaskRequest is the request body for POST /tasks
type CreateTaskRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         string     `json:"priority"`
	DueDate          *time.Time `json:"due_date"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags"`
	EstimatedMinutes int        `json:"estimated_minutes"`
}

// Validate implements Validator.
func (c CreateTaskRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Priority != "" && !validPriorities[c.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	if c.EstimatedMinutes < 0 {
		errs = append(errs, "estimated_minutes cannot be negative")
	}
	return errs
}

// UpdateTaskRequest is the request body for PATCH /tasks/{id}. All fields are optional.
type UpdateTaskRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	Priority         *string    `json:"priority"`
	Status           *string    `json:"status"`
	DueDate          *time.Time `json:"due_date"`
	Category         *string    `json:"category"`
	Tags             []string   `json:"tags"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
}

// Validate implements Validator.
func (u UpdateTaskRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Priority != nil && !validPriorities[*u.Priority] {
		errs = append(errs, "priority must be low, medium, or high")
	}
	if u.Status != nil && !validTaskStatuses[*u.Status] {
		errs = append(errs, "status must be pending, in-progress, or completed")
	}
	return errs
}

// TaskSuccessResponse is the success response envelope for single-task endpoints.
type TaskSuccessResponse struct {
	Data  *domain.Task      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TaskListSuccessResponse is the success response envelope for GET /tasks.
type TaskListSuccessResponse struct {
	Data  []*domain.Task    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TaskController handles task endpoints.
type TaskController struct {
	Logger  *slog.Logger
	Service domain.TaskService
}

// NewTaskController creates a TaskController.
func NewTaskController(logger *slog.Logger, svc domain.TaskService) *TaskController {
	return &TaskController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create a task
// @Description Create a to-do item. Priority defaults to medium, status to pending.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTaskRequest true "Task data"
// @Success 201 {object} controllers.TaskSuccessResponse "data contains the created task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks [post]
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	task := &domain.Task{
		UserID:           userID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		Category:         req.Category,
		Tags:             req.Tags,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if err := c.Service.CreateTask(r.Context(), task); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, task)
}

// List godoc
// @Summary List tasks
// @Description List tasks, optionally filtered by status and priority.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, in-progress, completed)"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Success 200 {object} controllers.TaskListSuccessResponse "data contains the tasks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks [get]
func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	filter := domain.TaskFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	tasks, err := c.Service.ListTasks(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tasks)
}

// Get godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} controllers.TaskSuccessResponse "data contains the task"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{id} [get]
func (c *TaskController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	task, err := c.Service.GetTask(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, task)
}

// Update godoc
// @Summary Update a task
// @Description Update a task. All fields are optional; setting status to completed stamps the completion time.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param body body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} controllers.TaskSuccessResponse "data contains the updated task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{id} [patch]
func (c *TaskController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	task, err := c.Service.GetTask(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.EstimatedMinutes != nil {
		task.EstimatedMinutes = *req.EstimatedMinutes
	}

	if err := c.Service.UpdateTask(r.Context(), task); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, task)
}

// Complete godoc
// @Summary Complete a task
// @Description Mark a task completed and stamp its completion time.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} controllers.TaskSuccessResponse "data contains the completed task"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{id}/complete [post]
func (c *TaskController) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	task, err := c.Service.CompleteTask(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{id} [delete]
func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteTask(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
