// Package queue carries typed job payloads between the API process and
// the workers. Delivery is at-least-once; handlers must tolerate
// redelivery.
package queue

import "context"

const (
	TaskThumbnail = "thumbnail:generate"
	TaskWelcome   = "user:welcome"

	QueueThumbnails = "thumbnails"
	QueueWelcome    = "welcome"
)

type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

type WelcomePayload struct {
	UserID string `json:"userId"`
}

type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, payload ThumbnailPayload) error
	EnqueueWelcome(ctx context.Context, payload WelcomePayload) error
	Close() error
}
