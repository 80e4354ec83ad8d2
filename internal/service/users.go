package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"filevault-backend/internal/common"
	"filevault-backend/internal/models"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
)

type Users struct {
	users  repo.Users
	jobs   queue.Enqueuer
	logger *slog.Logger
}

func NewUsers(users repo.Users, jobs queue.Enqueuer, logger *slog.Logger) *Users {
	return &Users{users: users, jobs: jobs, logger: logger}
}

// Register creates a user after a duplicate-email pre-check. The check
// and the insert are not atomic; concurrent registration of the same
// email can race (known limitation of the store contract).
func (s *Users) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExist
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.jobs.EnqueueWelcome(ctx, queue.WelcomePayload{UserID: created.ID}); err != nil {
		s.logger.Error("failed to enqueue welcome job",
			"userId", created.ID, "error", err)
	}

	return created, nil
}
