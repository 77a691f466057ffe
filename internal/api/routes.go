package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Delete("/", s.handleDeleteUser)
				r.Get("/queue", s.handleDueQueue)
				r.Get("/cram", s.handleCramQueue)
				r.Get("/schedule", s.handleSchedule)
				r.Get("/stats", s.handleStats)
				r.Route("/cards/{cardID}", func(r chi.Router) {
					r.Post("/memorize", s.handleMemorize)
					r.Post("/review", s.handleReview)
					r.Post("/forget", s.handleForget)
					r.Get("/simulate", s.handleSimulate)
					r.Put("/cram", s.handleAddToCram)
					r.Delete("/cram", s.handleRemoveFromCram)
					r.Patch("/comment", s.handleSetComment)
				})
			})
		})
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleCreateCard)
			r.Route("/{cardID}", func(r chi.Router) {
				r.Get("/", s.handleGetCard)
				r.Put("/", s.handleUpdateCard)
				r.Delete("/", s.handleDeleteCard)
			})
		})
	})

	return r
}
