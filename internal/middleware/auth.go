package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cinelist/cinelist-go/internal/identity"
	"github.com/cinelist/cinelist-go/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

const unauthorizedMessage = "authentication credentials were not provided or are invalid"

// UserResolver maps a verified identity to a provisioned user.
type UserResolver interface {
	Resolve(ctx context.Context, id identity.Identity) (*model.User, error)
}

// Authenticate returns middleware that verifies the Bearer token from the
// Authorization header and provisions its user. Missing, malformed and
// rejected tokens all get the same 401.
func Authenticate(verifier identity.Verifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			token = strings.TrimSpace(token)
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", unauthorizedMessage)
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				slog.Debug("token rejected", "error", err)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", unauthorizedMessage)
				return
			}

			user, err := users.Resolve(r.Context(), id)
			if err != nil {
				slog.Error("resolving user", "user_id", id.UserID, "error", err)
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}

			ctx := WithUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
