package api

import (
	"context"
	"log/slog"
	"net/http"

	"filevault-backend/internal/models"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/tokens"
)

// Pinger reports store liveness for /status.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AppHandler struct {
	credentials tokens.Store
	metadata    Pinger
	users       repo.Users
	files       repo.Files
	logger      *slog.Logger
}

func NewAppHandler(credentials tokens.Store, metadata Pinger, users repo.Users, files repo.Files, logger *slog.Logger) *AppHandler {
	return &AppHandler{
		credentials: credentials,
		metadata:    metadata,
		users:       users,
		files:       files,
		logger:      logger,
	}
}

func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Redis: h.credentials.Ping(r.Context()) == nil,
		DB:    h.metadata.Ping(r.Context()) == nil,
	})
}

func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Count(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	files, err := h.files.Count(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatsResponse{Users: users, Files: files})
}
