package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/storage"
)

type Files struct {
	files  repo.Files
	blobs  storage.Backend
	jobs   queue.Enqueuer
	logger *slog.Logger
}

func NewFiles(files repo.Files, blobs storage.Backend, jobs queue.Enqueuer, logger *slog.Logger) *Files {
	return &Files{files: files, blobs: blobs, jobs: jobs, logger: logger}
}

type CreateFileInput struct {
	Name     string
	Type     models.FileType
	ParentID string
	IsPublic bool
	Data     string // base64-encoded content; empty for folders
}

// Create validates the input, writes the blob (for non-folders) and then
// records the metadata. The blob write must succeed before the metadata
// insert so no entry ever references a missing blob. Thumbnail enqueue is
// best-effort relative to the primary write.
func (s *Files) Create(ctx context.Context, user *models.User, in CreateFileInput) (*models.FileEntry, error) {
	if in.Name == "" {
		return nil, common.ErrMissingName
	}
	if in.Type == "" || !models.ValidFileType(in.Type) {
		return nil, common.ErrMissingType
	}
	if in.Type != models.TypeFolder && in.Data == "" {
		return nil, common.ErrMissingData
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = models.RootParentID
	}
	if parentID != models.RootParentID {
		parent, err := s.files.GetByIDAndUser(ctx, parentID, user.ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to look up parent: %w", err)
		}
		if parent.Type != models.TypeFolder {
			return nil, common.ErrParentNotAFolder
		}
	}

	entry := &models.FileEntry{
		UserID:   user.ID,
		Name:     in.Name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}

	if in.Type != models.TypeFolder {
		raw, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, common.ErrMissingData
		}

		path, err := s.blobs.Save(ctx, uuid.NewString(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to store blob: %w", err)
		}
		entry.LocalPath = path
	}

	created, err := s.files.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	if created.Type == models.TypeImage {
		payload := queue.ThumbnailPayload{UserID: created.UserID, FileID: created.ID}
		if err := s.jobs.EnqueueThumbnail(ctx, payload); err != nil {
			s.logger.Error("failed to enqueue thumbnail job",
				"fileId", created.ID, "error", err)
		}
	}

	return created, nil
}

// Get is owner-scoped; public files are not exempt.
func (s *Files) Get(ctx context.Context, user *models.User, id string) (*models.FileEntry, error) {
	entry, err := s.files.GetByIDAndUser(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up file: %w", err)
	}
	return entry, nil
}

func (s *Files) List(ctx context.Context, user *models.User, parentID string, page int) ([]models.FileEntry, error) {
	if page < 0 {
		page = 0
	}
	entries, err := s.files.List(ctx, user.ID, parentID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return entries, nil
}

// SetVisibility toggles isPublic. Setting the current value again is a
// no-op success.
func (s *Files) SetVisibility(ctx context.Context, user *models.User, id string, isPublic bool) (*models.FileEntry, error) {
	entry, err := s.files.SetPublic(ctx, id, user.ID, isPublic)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}
	return entry, nil
}

// Data returns the raw content of a file. user may be nil; access is
// granted to the owner or, for public entries, to anyone. size selects a
// thumbnail derivative by the path convention.
func (s *Files) Data(ctx context.Context, user *models.User, id string, size int) ([]byte, string, error) {
	entry, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to look up file: %w", err)
	}

	if !entry.IsPublic && (user == nil || user.ID != entry.UserID) {
		return nil, "", common.ErrNotFound
	}
	if entry.Type == models.TypeFolder {
		return nil, "", common.ErrFolderNoContent
	}

	path := entry.LocalPath
	if size != 0 {
		if !validThumbnailSize(size) {
			return nil, "", common.ErrNotFound
		}
		path = fmt.Sprintf("%s_%d", path, size)
	}

	data, err := s.blobs.Load(ctx, path)
	if err != nil {
		return nil, "", common.ErrNotFound
	}

	return data, entry.Name, nil
}

func validThumbnailSize(size int) bool {
	for _, s := range models.ThumbnailWidths {
		if s == size {
			return true
		}
	}
	return false
}
