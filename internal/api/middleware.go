package api

import (
	"context"
	"log/slog"
	"net/http"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/tokens"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenMiddleware resolves the X-Token header to a user and rejects the
// request with 401 before any other validation runs.
func TokenMiddleware(manager *tokens.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Token")
			if token == "" {
				writeError(w, logger, common.ErrUnauthorized)
				return
			}

			user, err := manager.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, logger, err)
				return
			}
			if user == nil {
				writeError(w, logger, common.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
