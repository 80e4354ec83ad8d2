package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"filevault-backend/internal/common"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
)

// WelcomeProcessor handles user-creation jobs. The welcome action is a
// log line; a redelivered job repeats it, which is accepted.
type WelcomeProcessor struct {
	users  repo.Users
	logger *slog.Logger
}

func NewWelcomeProcessor(users repo.Users, logger *slog.Logger) *WelcomeProcessor {
	return &WelcomeProcessor{users: users, logger: logger}
}

func (p *WelcomeProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.WelcomePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	if err := p.Process(ctx, payload); err != nil {
		p.logger.Error("welcome job failed", "userId", payload.UserID, "error", err)
		return err
	}

	return nil
}

func (p *WelcomeProcessor) Process(ctx context.Context, payload queue.WelcomePayload) error {
	if payload.UserID == "" {
		return common.ErrMissingUserID
	}

	user, err := p.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	p.logger.Info(fmt.Sprintf("Welcome %s!", user.Email))
	return nil
}
