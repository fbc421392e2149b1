package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dayplanner/internal/delivery/http/helpers"
	"dayplanner/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a copy of ctx carrying the authenticated user ID.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user ID set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequireAuth guards a handler with bearer-token authentication. The token
// from the Authorization header is verified and the resulting user ID is
// stored on the request context.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid authorization header")
				return
			}

			userID, err := verifier.Verify(parts[1])
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired token")
				return
			}

			next(w, r.WithContext(SetUserID(r.Context(), userID)))
		}
	}
}
