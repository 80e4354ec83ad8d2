package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"testing"

	"filevault-backend/internal/config"
	"filevault-backend/internal/models"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

type thumbFixture struct {
	proc  *ThumbnailProcessor
	files repo.Files
	blobs *storage.LocalBackend
	root  string
}

func newThumbFixture(t *testing.T) *thumbFixture {
	t.Helper()
	root := t.TempDir()
	store := repo.NewMemoryStore()
	blobs := storage.NewLocalBackend(&config.StorageConfig{FolderPath: root})
	return &thumbFixture{
		proc:  NewThumbnailProcessor(store.Files(), blobs, discardLogger()),
		files: store.Files(),
		blobs: blobs,
		root:  root,
	}
}

func (f *thumbFixture) storeImage(t *testing.T, userID string, data []byte) *models.FileEntry {
	t.Helper()
	ctx := context.Background()
	path, err := f.blobs.Save(ctx, "source-blob", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	entry, err := f.files.Create(ctx, &models.FileEntry{
		UserID:    userID,
		Name:      "pic.png",
		Type:      models.TypeImage,
		ParentID:  models.RootParentID,
		LocalPath: path,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return entry
}

func TestProcessWritesThreeDerivatives(t *testing.T) {
	ctx := context.Background()
	f := newThumbFixture(t)
	entry := f.storeImage(t, "owner", testPNG(t, 800, 600))

	err := f.proc.Process(ctx, queue.ThumbnailPayload{UserID: "owner", FileID: entry.ID})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, width := range []int{100, 250, 500} {
		path := fmt.Sprintf("%s_%d", entry.LocalPath, width)
		data, err := f.blobs.Load(ctx, path)
		if err != nil {
			t.Fatalf("derivative %d missing: %v", width, err)
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("derivative %d does not decode: %v", width, err)
		}
		if got := img.Bounds().Dx(); got != width {
			t.Errorf("derivative width = %d, want %d", got, width)
		}
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newThumbFixture(t)
	entry := f.storeImage(t, "owner", testPNG(t, 400, 400))

	payload := queue.ThumbnailPayload{UserID: "owner", FileID: entry.ID}
	if err := f.proc.Process(ctx, payload); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	// redelivery overwrites the same paths
	if err := f.proc.Process(ctx, payload); err != nil {
		t.Fatalf("second Process: %v", err)
	}
}

func TestProcessMissingFileID(t *testing.T) {
	f := newThumbFixture(t)

	err := f.proc.Process(context.Background(), queue.ThumbnailPayload{UserID: "owner"})
	if err == nil || err.Error() != "Missing fileId" {
		t.Fatalf("err = %v, want Missing fileId", err)
	}

	entries, readErr := os.ReadDir(f.root)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("wrote %d blobs, want 0", len(entries))
	}
}

func TestProcessMissingUserID(t *testing.T) {
	f := newThumbFixture(t)

	err := f.proc.Process(context.Background(), queue.ThumbnailPayload{FileID: "abc"})
	if err == nil || err.Error() != "Missing userId" {
		t.Fatalf("err = %v, want Missing userId", err)
	}
}

// fileId is checked before userId when both are absent.
func TestProcessValidationOrder(t *testing.T) {
	f := newThumbFixture(t)

	err := f.proc.Process(context.Background(), queue.ThumbnailPayload{})
	if err == nil || err.Error() != "Missing fileId" {
		t.Fatalf("err = %v, want Missing fileId", err)
	}
}

func TestProcessFileNotFound(t *testing.T) {
	f := newThumbFixture(t)

	err := f.proc.Process(context.Background(), queue.ThumbnailPayload{UserID: "owner", FileID: "missing"})
	if err == nil || err.Error() != "File not found" {
		t.Fatalf("err = %v, want File not found", err)
	}
}

func TestProcessWrongOwnerIsNotFound(t *testing.T) {
	f := newThumbFixture(t)
	entry := f.storeImage(t, "owner", testPNG(t, 100, 100))

	err := f.proc.Process(context.Background(), queue.ThumbnailPayload{UserID: "other", FileID: entry.ID})
	if err == nil || err.Error() != "File not found" {
		t.Fatalf("err = %v, want File not found", err)
	}
}

func TestProcessUndecodableImageFails(t *testing.T) {
	ctx := context.Background()
	f := newThumbFixture(t)
	entry := f.storeImage(t, "owner", []byte("not an image"))

	err := f.proc.Process(ctx, queue.ThumbnailPayload{UserID: "owner", FileID: entry.ID})
	if err == nil {
		t.Fatal("expected decode error")
	}

	// no partial derivatives
	for _, width := range []int{100, 250, 500} {
		path := fmt.Sprintf("%s_%d", entry.LocalPath, width)
		if _, err := f.blobs.Load(ctx, path); err == nil {
			t.Errorf("unexpected derivative at width %d", width)
		}
	}
}
