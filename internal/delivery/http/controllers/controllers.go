package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/delivery/http/middleware"
	"dayplanner/internal/domain"
)

// dateLayout is the wire format for date-only query parameters.
const dateLayout = "2006-01-02"

// requireUserID extracts the authenticated user ID or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// writeServiceError maps service errors onto the API error envelope. Sentinel
// errors become client errors; everything else is logged and reported as 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// parseDateParam parses an optional YYYY-MM-DD query parameter in loc,
// defaulting to today when absent.
func parseDateParam(r *http.Request, name string, loc *time.Location) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation(dateLayout, raw, loc)
}
