package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/repo"
)

const keyPrefix = "auth_"

// Manager issues, resolves and revokes session tokens. Tokens are opaque
// uuid v4 values mapped to a user id in the credential store; expiry is
// absolute from issuance.
type Manager struct {
	store Store
	users repo.Users
	ttl   time.Duration
}

func NewManager(store Store, users repo.Users, ttl time.Duration) *Manager {
	return &Manager{store: store, users: users, ttl: ttl}
}

// Login verifies the credentials and returns a fresh session token.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	token := uuid.NewString()
	if err := m.store.Set(ctx, keyPrefix+token, user.ID, m.ttl); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Logout revokes a token. Deleting an absent key is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.store.Del(ctx, keyPrefix+token)
}

// Resolve maps a token to its user. It returns (nil, nil) when the token
// is unknown, expired, or the user record no longer exists.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := m.store.Get(ctx, keyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if userID == "" {
		return nil, nil
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}
