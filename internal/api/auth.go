package api

import (
	"log/slog"
	"net/http"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/tokens"
)

type AuthHandler struct {
	manager *tokens.Manager
	logger  *slog.Logger
}

func NewAuthHandler(manager *tokens.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{manager: manager, logger: logger}
}

// Connect exchanges Basic credentials for a session token.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeError(w, h.logger, common.ErrUnauthorized)
		return
	}

	token, err := h.manager.Login(r.Context(), email, password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Disconnect revokes the token that authenticated this request.
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Logout(r.Context(), r.Header.Get("X-Token")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
