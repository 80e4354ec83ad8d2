package queue

import (
	"context"
	"sync"
)

// MemoryEnqueuer records jobs instead of publishing them. Tests use it to
// assert what the services enqueued; FailNext simulates a broker outage.
type MemoryEnqueuer struct {
	mu         sync.Mutex
	Thumbnails []ThumbnailPayload
	Welcomes   []WelcomePayload
	FailNext   error
}

func NewMemoryEnqueuer() *MemoryEnqueuer {
	return &MemoryEnqueuer{}
}

func (e *MemoryEnqueuer) EnqueueThumbnail(ctx context.Context, payload ThumbnailPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailNext != nil {
		err := e.FailNext
		e.FailNext = nil
		return err
	}
	e.Thumbnails = append(e.Thumbnails, payload)
	return nil
}

func (e *MemoryEnqueuer) EnqueueWelcome(ctx context.Context, payload WelcomePayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailNext != nil {
		err := e.FailNext
		e.FailNext = nil
		return err
	}
	e.Welcomes = append(e.Welcomes, payload)
	return nil
}

func (e *MemoryEnqueuer) Close() error {
	return nil
}
