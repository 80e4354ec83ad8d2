package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"filevault-backend/internal/tokens"
)

func NewRouter(app *AppHandler, users *UserHandler, auth *AuthHandler, files *FileHandler, manager *tokens.Manager, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/status", app.Status)
	r.Get("/stats", app.Stats)

	r.Post("/users", users.Create)
	r.Get("/connect", auth.Connect)

	// Content retrieval does its own token resolution: public entries
	// are served without one.
	r.Get("/files/{id}/data", files.Data)

	r.Group(func(r chi.Router) {
		r.Use(TokenMiddleware(manager, logger))

		r.Get("/disconnect", auth.Disconnect)
		r.Get("/users/me", users.Me)

		r.Post("/files", files.Upload)
		r.Get("/files", files.Index)
		r.Get("/files/{id}", files.Show)
		r.Put("/files/{id}/publish", files.Publish)
		r.Put("/files/{id}/unpublish", files.Unpublish)
	})

	return r
}
