package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"filevault-backend/internal/config"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/storage"
	"filevault-backend/internal/worker"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	metadata, err := repo.NewMongoStore(ctx, &cfg.Mongo)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to metadata store: %v", err)
	}

	blobs, err := storage.NewBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	thumbnails := worker.NewThumbnailProcessor(metadata.Files(), blobs, logger)
	welcomes := worker.NewWelcomeProcessor(metadata.Users(), logger)

	srv := worker.NewServer(cfg, thumbnails, welcomes)

	log.Printf("Starting worker, storage backend %s", blobs.GetName())
	if err := srv.Run(); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metadata.Close(shutdownCtx); err != nil {
		log.Printf("Failed to close metadata store: %v", err)
	}
}
