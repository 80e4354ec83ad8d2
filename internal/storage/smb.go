package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strings"

	"github.com/hirochachacha/go-smb2"

	"filevault-backend/internal/config"
)

// SMBBackend keeps one service-account session to the share for the
// lifetime of the process. Blob paths are share-relative.
type SMBBackend struct {
	config  *config.SMBConfig
	session *smb2.Session
	share   *smb2.Share
}

func NewSMBBackend(cfg *config.SMBConfig) (*SMBBackend, error) {
	address := net.JoinHostPort(cfg.Server, fmt.Sprintf("%d", cfg.Port))
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMB server: %w", err)
	}

	d := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     cfg.User,
			Password: cfg.Password,
			Domain:   cfg.Domain,
		},
	}

	session, err := d.Dial(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SMB session: %w", err)
	}

	share, err := session.Mount(cfg.Share)
	if err != nil {
		session.Logoff()
		return nil, fmt.Errorf("failed to mount share '%s': %w", cfg.Share, err)
	}

	return &SMBBackend{config: cfg, session: session, share: share}, nil
}

func (b *SMBBackend) GetName() string {
	return "smb"
}

func (b *SMBBackend) Save(ctx context.Context, name string, data []byte) (string, error) {
	dir := b.config.Path
	if dir != "" {
		if err := b.ensureDirectory(dir); err != nil {
			return "", fmt.Errorf("failed to create content directory: %w", err)
		}
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

func (b *SMBBackend) Load(ctx context.Context, blobPath string) ([]byte, error) {
	file, err := b.share.Open(blobPath)
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

func (b *SMBBackend) Write(ctx context.Context, blobPath string, data []byte) error {
	return b.write(blobPath, data)
}

func (b *SMBBackend) Close() error {
	return b.session.Logoff()
}

func (b *SMBBackend) write(fullPath string, data []byte) error {
	file, err := b.share.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (b *SMBBackend) ensureDirectory(dir string) error {
	if file, err := b.share.Open(dir); err == nil {
		file.Close()
		return nil
	}

	// Create intermediate components one by one; Mkdir is not recursive.
	parts := strings.Split(dir, "/")
	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current = current + "/" + part
		}
		if err := b.share.Mkdir(current, 0o755); err != nil {
			if file, openErr := b.share.Open(current); openErr == nil {
				file.Close()
				continue
			}
			return fmt.Errorf("failed to create directory %s: %w", current, err)
		}
	}
	return nil
}
