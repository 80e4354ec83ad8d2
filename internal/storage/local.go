package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"filevault-backend/internal/config"
)

// LocalBackend stores blobs as flat files under a content directory.
// This is the default backend; the directory comes from FOLDER_PATH and
// falls back to /tmp/files_manager.
type LocalBackend struct {
	root string
}

func NewLocalBackend(cfg *config.StorageConfig) *LocalBackend {
	return &LocalBackend{root: cfg.FolderPath}
}

func (b *LocalBackend) GetName() string {
	return "local"
}

func (b *LocalBackend) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(b.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	path := filepath.Join(b.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return path, nil
}

func (b *LocalBackend) Load(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func (b *LocalBackend) Write(ctx context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}
