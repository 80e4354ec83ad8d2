package worker

import (
	"github.com/hibiken/asynq"

	"filevault-backend/internal/config"
	"filevault-backend/internal/queue"
)

// Server consumes the thumbnail and welcome queues. Run blocks until
// SIGINT/SIGTERM and drains in-flight jobs before returning.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(cfg *config.Config, thumbnails *ThumbnailProcessor, welcomes *WelcomeProcessor) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				queue.QueueThumbnails: 6,
				queue.QueueWelcome:    1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TaskThumbnail, thumbnails)
	mux.Handle(queue.TaskWelcome, welcomes)

	return &Server{srv: srv, mux: mux}
}

func (s *Server) Run() error {
	return s.srv.Run(s.mux)
}
