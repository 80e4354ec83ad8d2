package repo

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
)

// MemoryStore keeps users and files in process memory. It backs tests and
// development setups without a Mongo instance. IDs are ObjectID hex
// strings, so lexicographic order matches creation order as it does with
// the real store.
type MemoryStore struct {
	mu    sync.RWMutex
	users []models.User
	files []models.FileEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Users() Users { return &memoryUsers{store: s} }
func (s *MemoryStore) Files() Files { return &memoryFiles{store: s} }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

type memoryUsers struct {
	store *MemoryStore
}

func (r *memoryUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created := *user
	created.ID = primitive.NewObjectID().Hex()
	r.store.users = append(r.store.users, created)
	return &created, nil
}

func (r *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if r.store.users[i].Email == email {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if r.store.users[i].ID == id {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryUsers) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

type memoryFiles struct {
	store *MemoryStore
}

func (r *memoryFiles) Create(ctx context.Context, entry *models.FileEntry) (*models.FileEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	created := *entry
	created.ID = primitive.NewObjectID().Hex()
	r.store.files = append(r.store.files, created)
	return &created, nil
}

func (r *memoryFiles) GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.files {
		if r.store.files[i].ID == id && r.store.files[i].UserID == userID {
			entry := r.store.files[i]
			return &entry, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryFiles) GetByID(ctx context.Context, id string) (*models.FileEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.files {
		if r.store.files[i].ID == id {
			entry := r.store.files[i]
			return &entry, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryFiles) List(ctx context.Context, userID, parentID string, page int) ([]models.FileEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []models.FileEntry{}
	for i := range r.store.files {
		entry := r.store.files[i]
		if entry.UserID != userID {
			continue
		}
		if parentID != "" && entry.ParentID != parentID {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

	start := page * PageSize
	if start >= len(matched) {
		return []models.FileEntry{}, nil
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *memoryFiles) SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.FileEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.files {
		if r.store.files[i].ID == id && r.store.files[i].UserID == userID {
			r.store.files[i].IsPublic = isPublic
			entry := r.store.files[i]
			return &entry, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryFiles) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.files)), nil
}
