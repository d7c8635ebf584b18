// Package http provides HTTP routing and middleware configuration
// for the record service.
package http

import (
	"net/http"

	"github.com/atinyakov/UserKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the record API.
//
// Routes:
//
//	GET    /api/health        → Health (no api key)
//	GET    /api/records       → recordHandler.List
//	POST   /api/records       → recordHandler.Create
//	PUT    /api/records/{id}  → recordHandler.Update
//	DELETE /api/records/{id}  → recordHandler.Delete
//
// Middleware chain (applied in order):
//  1. RequestID and Recoverer
//  2. AllowContentType("application/json"): rejects non-JSON bodies
//  3. WithRequestLogging(logger)
//  4. APIKeyAuth(apiKey): disabled when apiKey is empty
func NewRouter(
	recordHandler *RecordHandler,
	apiKey string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.APIKeyAuth(apiKey, "/api/health"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", recordHandler.List)
			r.Post("/", recordHandler.Create)
			r.Put("/{id}", recordHandler.Update)
			r.Delete("/{id}", recordHandler.Delete)
		})
	})

	return r
}
