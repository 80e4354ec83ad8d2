// Package repo owns the metadata records: users and file entries.
// Implementations return common.ErrNotFound for absent (or not owned)
// records so callers can map lookups to the wire contract with errors.Is.
package repo

import (
	"context"

	"filevault-backend/internal/models"
)

// PageSize is the fixed page length for file listings.
const PageSize = 20

type Users interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type Files interface {
	Create(ctx context.Context, entry *models.FileEntry) (*models.FileEntry, error)
	// GetByIDAndUser is the owner-scoped lookup used by every
	// authenticated metadata operation.
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileEntry, error)
	// GetByID is unscoped; only the public content path may use it.
	GetByID(ctx context.Context, id string) (*models.FileEntry, error)
	// List returns the page of entries owned by userID, newest first.
	// parentID == "" means no parent filter. Out-of-range pages yield an
	// empty slice.
	List(ctx context.Context, userID, parentID string, page int) ([]models.FileEntry, error)
	SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.FileEntry, error)
	Count(ctx context.Context) (int64, error)
}
