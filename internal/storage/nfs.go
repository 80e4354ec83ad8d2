package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	nfs "github.com/vmware/go-nfs-client/nfs"
	"github.com/vmware/go-nfs-client/nfs/rpc"

	"filevault-backend/internal/config"
)

type NFSBackend struct {
	config *config.NFSConfig
	mount  *nfs.Target
}

func NewNFSBackend(cfg *config.NFSConfig) (*NFSBackend, error) {
	mount, err := nfs.DialMount(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NFS server: %w", err)
	}

	auth := rpc.NewAuthUnix("filevault", 1000, 1000)

	target, err := mount.Mount(cfg.Export, auth.Auth())
	if err != nil {
		return nil, fmt.Errorf("failed to mount NFS export: %w", err)
	}

	return &NFSBackend{config: cfg, mount: target}, nil
}

func (b *NFSBackend) GetName() string {
	return "nfs"
}

func (b *NFSBackend) Save(ctx context.Context, name string, data []byte) (string, error) {
	dir := b.config.Path
	if dir != "" {
		// Mkdir on an existing directory fails; ignore and let the write
		// surface real problems.
		b.mount.Mkdir(dir, 0o755)
	}

	fullPath := name
	if dir != "" {
		fullPath = path.Join(dir, name)
	}

	if err := b.write(fullPath, data); err != nil {
		return "", err
	}
	return fullPath, nil
}

func (b *NFSBackend) Load(ctx context.Context, blobPath string) ([]byte, error) {
	file, err := b.mount.Open(blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func (b *NFSBackend) Write(ctx context.Context, blobPath string, data []byte) error {
	return b.write(blobPath, data)
}

func (b *NFSBackend) Close() error {
	b.mount.Close()
	return nil
}

func (b *NFSBackend) write(fullPath string, data []byte) error {
	file, err := b.mount.OpenFile(fullPath, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
