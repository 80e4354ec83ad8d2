package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filevault-backend/internal/api"
	"filevault-backend/internal/config"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/service"
	"filevault-backend/internal/storage"
	"filevault-backend/internal/tokens"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sessionTTL, err := cfg.GetSessionTTL()
	if err != nil {
		log.Fatalf("Invalid session TTL: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	metadata, err := repo.NewMongoStore(ctx, &cfg.Mongo)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to metadata store: %v", err)
	}

	credentials := tokens.NewRedisStore(&cfg.Redis)

	blobs, err := storage.NewBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	jobs := queue.NewAsynqEnqueuer(&cfg.Redis, &cfg.Queue)

	users := metadata.Users()
	files := metadata.Files()

	manager := tokens.NewManager(credentials, users, sessionTTL)
	userService := service.NewUsers(users, jobs, logger)
	fileService := service.NewFiles(files, blobs, jobs, logger)

	appHandler := api.NewAppHandler(credentials, metadata, users, files, logger)
	userHandler := api.NewUserHandler(userService, logger)
	authHandler := api.NewAuthHandler(manager, logger)
	fileHandler := api.NewFileHandler(fileService, manager, logger)

	router := api.NewRouter(appHandler, userHandler, authHandler, fileHandler, manager, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := jobs.Close(); err != nil {
		log.Printf("Failed to close queue client: %v", err)
	}
	if err := credentials.Close(); err != nil {
		log.Printf("Failed to close credential store: %v", err)
	}
	if err := metadata.Close(shutdownCtx); err != nil {
		log.Printf("Failed to close metadata store: %v", err)
	}

	log.Println("Server stopped")
}
