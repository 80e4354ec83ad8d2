package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/hibiken/asynq"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/storage"
)

// ThumbnailProcessor turns one image blob into resized derivatives at
// the widths in models.ThumbnailWidths, smallest first. Derivative paths
// are the source path suffixed with "_<width>", so a redelivered job
// overwrites the same blobs and is safe to re-run.
type ThumbnailProcessor struct {
	files  repo.Files
	blobs  storage.Backend
	logger *slog.Logger
}

func NewThumbnailProcessor(files repo.Files, blobs storage.Backend, logger *slog.Logger) *ThumbnailProcessor {
	return &ThumbnailProcessor{files: files, blobs: blobs, logger: logger}
}

func (p *ThumbnailProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.ThumbnailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	if err := p.Process(ctx, payload); err != nil {
		p.logger.Error("thumbnail job failed",
			"fileId", payload.FileID, "userId", payload.UserID, "error", err)
		return err
	}

	p.logger.Info("thumbnail job completed", "fileId", payload.FileID)
	return nil
}

func (p *ThumbnailProcessor) Process(ctx context.Context, payload queue.ThumbnailPayload) error {
	if payload.FileID == "" {
		return common.ErrMissingFileID
	}
	if payload.UserID == "" {
		return common.ErrMissingUserID
	}

	entry, err := p.files.GetByIDAndUser(ctx, payload.FileID, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrFileNotFound
		}
		return fmt.Errorf("failed to look up file: %w", err)
	}

	src, err := p.blobs.Load(ctx, entry.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to load source blob: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	// Any failure aborts the remaining sizes; sizes are not retried
	// independently within one delivery.
	for _, width := range models.ThumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, encodeFormat(format)); err != nil {
			return fmt.Errorf("failed to encode %d thumbnail: %w", width, err)
		}

		path := fmt.Sprintf("%s_%d", entry.LocalPath, width)
		if err := p.blobs.Write(ctx, path, buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %d thumbnail: %w", width, err)
		}
	}

	return nil
}

func encodeFormat(decoded string) imaging.Format {
	switch decoded {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}
