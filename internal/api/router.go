package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/profile", apiHandler.SubmitProfileHandler)
		r.Get("/session", apiHandler.GetSessionHandler)

		r.Post("/chat/messages", apiHandler.PostMessageHandler)

		// Location autocomplete (debounced settings-form state machine)
		r.Post("/session/search", apiHandler.SearchQueryHandler)
		r.Get("/session/search", apiHandler.SearchStateHandler)
		r.Post("/session/search/select", apiHandler.SearchSelectHandler)
		r.Post("/session/search/blur", apiHandler.SearchBlurHandler)

		// One-shot lookup
		r.Get("/locations", apiHandler.LocationsHandler)
	})

	return r
}
