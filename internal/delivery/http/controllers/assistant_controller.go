package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

// AskRequest is the request body for POST /assistant/chat
type AskRequest struct {
	Message string `json:"message"`
}

// Validate implements Validator.
func (a AskRequest) Validate() []string {
	if strings.TrimSpace(a.Message) == "" {
		return []string{"message is required"}
	}
	return nil
}

// AskSuccessResponse is the success response envelope for POST /assistant/chat.
type AskSuccessResponse struct {
	Data  *domain.AssistantReply `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// AgendaSuccessResponse is the success response envelope for POST /events/{id}/agenda.
type AgendaSuccessResponse struct {
	Data  *domain.MeetingAgenda `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// AssistantController handles the conversational assistant endpoints.
type AssistantController struct {
	Logger  *slog.Logger
	Service domain.AssistantService
}

// NewAssistantController creates an AssistantController.
func NewAssistantController(logger *slog.Logger, svc domain.AssistantService) *AssistantController {
	return &AssistantController{
		Logger:  logger,
		Service: svc,
	}
}

// Ask godoc
// @Summary Chat with the assistant
// @Description Send a free-text message. The assistant either answers directly or performs a planner action (create or list events, tasks, habits, reminders; find free time) and reports the result.
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AskRequest true "User message"
// @Success 200 {object} controllers.AskSuccessResponse "data contains the reply and any action result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /assistant/chat [post]
func (c *AssistantController) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req AskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reply, err := c.Service.Ask(r.Context(), userID, req.Message)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, reply)
}

// GenerateAgenda godoc
// @Summary Generate a meeting agenda
// @Description Generate a structured agenda for an event and append it to the event's notes.
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.AgendaSuccessResponse "data contains the generated agenda"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/agenda [post]
func (c *AssistantController) GenerateAgenda(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	agenda, err := c.Service.GenerateAgenda(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, agenda)
}
