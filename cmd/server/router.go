package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lincolndiasramos-coder/linkards-api/internal/api"
	apiMiddleware "github.com/lincolndiasramos-coder/linkards-api/internal/api/middleware"
)

// setupRouter builds the route tree. Profile creation, login, and the
// profile listing are public; everything else requires a token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	profileHandler := api.NewProfileHandler(app.profileService, app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.profileService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	podcastHandler := api.NewPodcastHandler(app.podcastManager, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/profiles", profileHandler.Create)
		r.Get("/profiles", profileHandler.List)
		r.Post("/auth/login", profileHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Profile endpoints
			r.Get("/me", profileHandler.Get)
			r.Delete("/me", profileHandler.Delete)
			r.Patch("/me/passkey", profileHandler.ChangePasskey)
			r.Post("/me/study-time", profileHandler.RecordStudyTime)

			// Deck endpoints
			r.Post("/decks", deckHandler.Create)
			r.Post("/decks/generate", deckHandler.Generate)
			r.Get("/decks/{deckName}", deckHandler.Get)
			r.Put("/decks/{deckName}", deckHandler.Rename)
			r.Delete("/decks/{deckName}", deckHandler.Delete)
			r.Post("/decks/{deckName}/cards", deckHandler.AddCard)

			// Card endpoints
			r.Patch("/cards/{cardID}", deckHandler.EditCard)
			r.Delete("/cards/{cardID}", deckHandler.RemoveCard)
			r.Post("/cards/{cardID}/fill", deckHandler.FillCard)
			r.Get("/cards/{cardID}/audio", deckHandler.CardAudio)

			// Study endpoints
			r.Get("/decks/{deckName}/session", studyHandler.Session)
			r.Post("/cards/{cardID}/grade", studyHandler.Grade)

			// Episode endpoints
			r.Post("/decks/{deckName}/episode", podcastHandler.Generate)
			r.Get("/decks/{deckName}/episode", podcastHandler.Status)
			r.Delete("/decks/{deckName}/episode", podcastHandler.Delete)
			r.Post("/decks/{deckName}/episode/play", podcastHandler.Play)
			r.Get("/decks/{deckName}/episode/audio", podcastHandler.Audio)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
