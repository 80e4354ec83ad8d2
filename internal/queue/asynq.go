package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"filevault-backend/internal/config"
)

// AsynqEnqueuer publishes jobs to the Redis-backed asynq queues.
type AsynqEnqueuer struct {
	client   *asynq.Client
	maxRetry int
}

func NewAsynqEnqueuer(redisCfg *config.RedisConfig, queueCfg *config.QueueConfig) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}),
		maxRetry: queueCfg.MaxRetry,
	}
}

func (e *AsynqEnqueuer) EnqueueThumbnail(ctx context.Context, payload ThumbnailPayload) error {
	return e.enqueue(ctx, TaskThumbnail, QueueThumbnails, payload)
}

func (e *AsynqEnqueuer) EnqueueWelcome(ctx context.Context, payload WelcomePayload) error {
	return e.enqueue(ctx, TaskWelcome, QueueWelcome, payload)
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, taskType, queueName string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(taskType, data)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(queueName),
		asynq.MaxRetry(e.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	return nil
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
