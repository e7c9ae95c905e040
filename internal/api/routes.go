package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/users", s.handleListUsers)

		// Everything below needs an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Get("/me", s.handleCurrentUser)
			r.Delete("/users/{id}", s.handleDeleteUser)

			r.Get("/decks", s.handleListDecks)
			r.Post("/decks", s.handleCreateDeck)
			r.Get("/decks/{id}", s.handleGetDeck)
			r.Put("/decks/{id}/options", s.handleUpdateDeckOptions)
			r.Delete("/decks/{id}", s.handleDeleteDeck)
			r.Get("/decks/{id}/stats", s.handleDeckStats)

			r.Get("/decks/{id}/cards", s.handleListCards)
			r.Post("/decks/{id}/cards", s.handleCreateCard)
			r.Post("/decks/{id}/import", s.handleImportCards)
			r.Get("/cards/{id}", s.handleGetCard)
			r.Delete("/cards/{id}", s.handleDeleteCard)

			r.Get("/due", s.handleDueAllDecks)
			r.Get("/due-decks", s.handleDueDecks)
			r.Get("/decks/{id}/due", s.handleDueCards)
			r.Get("/decks/{id}/learning", s.handleLearningCards)
			r.Get("/decks/{id}/upcoming", s.handleUpcomingCards)
			r.Get("/decks/{id}/next-due", s.handleNextDue)

			r.Post("/cards/{id}/review", s.handleReviewCard)
			r.Get("/cards/{id}/intervals", s.handlePreviewIntervals)
		})
	})

	return r
}
