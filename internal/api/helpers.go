package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var badRequestErrors = []error{
	common.ErrMissingEmail,
	common.ErrMissingPassword,
	common.ErrAlreadyExist,
	common.ErrMissingName,
	common.ErrMissingType,
	common.ErrMissingData,
	common.ErrParentNotFound,
	common.ErrParentNotAFolder,
	common.ErrFolderNoContent,
}

// writeError maps a service error onto the wire contract: a documented
// status code and a single-field JSON body. Anything unrecognized is an
// internal error; the cause is logged, never exposed.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: common.ErrUnauthorized.Error()})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: common.ErrNotFound.Error()})
	case isBadRequest(err):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal error"})
	}
}

func isBadRequest(err error) bool {
	for _, candidate := range badRequestErrors {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
