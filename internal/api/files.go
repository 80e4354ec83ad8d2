package api

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/service"
	"filevault-backend/internal/tokens"
)

type FileHandler struct {
	files   *service.Files
	manager *tokens.Manager
	logger  *slog.Logger
}

func NewFileHandler(files *service.Files, manager *tokens.Manager, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, manager: manager, logger: logger}
}

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, common.ErrMissingName)
		return
	}

	entry, err := h.files.Create(r.Context(), user, service.CreateFileInput{
		Name:     req.Name,
		Type:     models.FileType(req.Type),
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *FileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	entry, err := h.files.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *FileHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	parentID := r.URL.Query().Get("parentId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	entries, err := h.files.List(r.Context(), user, parentID, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *FileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *FileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FileHandler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user := userFromContext(r.Context())

	entry, err := h.files.SetVisibility(r.Context(), user, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Data serves raw content. The route is outside the token group: public
// files need no token, private files need one that resolves to the owner.
func (h *FileHandler) Data(w http.ResponseWriter, r *http.Request) {
	user, err := h.manager.Resolve(r.Context(), r.Header.Get("X-Token"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	data, name, err := h.files.Data(r.Context(), user, chi.URLParam(r, "id"), size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
