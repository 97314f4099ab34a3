package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RESTBase is the route prefix the WordPress plugin exposes.
const RESTBase = "/wp-json/gmkb/v2"

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route(RESTBase+"/ai", func(r chi.Router) {
		// Nonce-checked inside the handler; the context decides which nonce applies
		r.Post("/generate", apiHandler.GenerateHandler)
		r.Get("/usage", apiHandler.UsageHandler)
		r.Post("/nonce", apiHandler.NonceHandler)

		// Builder-only routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.BuilderNonceMiddleware)

			r.Get("/history", apiHandler.HistoryHandler)
		})
	})

	return r
}
