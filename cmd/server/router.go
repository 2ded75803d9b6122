package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/mnemo-api/internal/api"
	apiMiddleware "github.com/phrazzld/mnemo-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	sessionHandler := api.NewSessionHandler(app.srsManager, app.generator, app.dateFacts, app.logger)
	deckHandler := api.NewDeckHandler(app.deck, app.srsManager, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.GenerateSession)
		r.Post("/sessions/complete", sessionHandler.CompleteSession)
		r.Post("/answers", sessionHandler.RecordAnswer)

		r.Get("/deck", deckHandler.GetDeck)
		r.Get("/deck/cards/{number}", deckHandler.GetCard)
		r.Get("/stats", deckHandler.GetStats)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
