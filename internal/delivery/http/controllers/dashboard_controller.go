package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

// OverviewSuccessResponse is the success response envelope for GET /dashboard.
type OverviewSuccessResponse struct {
	Data  *domain.DashboardData `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// InsightsSuccessResponse is the success response envelope for GET /dashboard/insights.
type InsightsSuccessResponse struct {
	Data  *domain.ProductivityInsights `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// DashboardController handles dashboard endpoints.
type DashboardController struct {
	Logger   *slog.Logger
	Service  domain.DashboardService
	Location *time.Location
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(logger *slog.Logger, svc domain.DashboardService, loc *time.Location) *DashboardController {
	return &DashboardController{
		Logger:   logger,
		Service:  svc,
		Location: loc,
	}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Aggregate today's events, open tasks, habit progress, and upcoming reminders with a productivity score.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.OverviewSuccessResponse "data contains the dashboard payload"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard [get]
func (c *DashboardController) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	data, err := c.Service.GetOverview(r.Context(), userID, time.Now().In(c.Location))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, data)
}

// Insights godoc
// @Summary Productivity insights
// @Description Summarize recent task completions and habit streaks over the last N days (default 7).
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Look-back window in days (default 7)"
// @Success 200 {object} controllers.InsightsSuccessResponse "data contains the insights"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard/insights [get]
func (c *DashboardController) Insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", 7)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if days <= 0 {
		days = 7
	}

	insights, err := c.Service.GetInsights(r.Context(), userID, days, time.Now().In(c.Location))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, insights)
}
