package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API routes and middleware. Requests running longer
// than timeout have their context canceled.
func NewRouter(h *Handlers, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/healthz", h.Health)

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)
		r.Post("/", h.CreateTodo)
		r.Get("/{id}", h.GetTodo)
		r.Put("/{id}", h.UpdateTodo)
		r.Post("/{id}/toggle", h.ToggleTodo)
		r.Delete("/{id}", h.DeleteTodo)
	})

	return r
}
