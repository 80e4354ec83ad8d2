package storage

import (
	"fmt"

	"filevault-backend/internal/config"
)

func NewBackend(cfg *config.Config) (Backend, error) {
	storageType := cfg.Storage.Type
	if storageType == "" {
		storageType = "local"
	}

	switch storageType {
	case "local":
		return NewLocalBackend(&cfg.Storage), nil
	case "s3":
		return NewS3Backend(&cfg.S3), nil
	case "smb":
		return NewSMBBackend(&cfg.SMB)
	case "nfs":
		return NewNFSBackend(&cfg.NFS)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
