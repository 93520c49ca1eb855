package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the lease endpoints behind request ids, panic recovery
// and per-client rate limiting. Health checks are not rate limited.
func NewRouter(handler *LeaseHandler, limiter *RateLimiter) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/lease", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))

		r.Post("/validate", handler.Validate)
		r.Post("/calculate", handler.Calculate)
		r.Post("/calculate/batch", handler.CalculateBatch)
		r.Post("/discount-rate", handler.DiscountRate)
		r.Post("/exceptions", handler.Exceptions)
		r.Get("/calculations/{id}", handler.GetCalculation)
	})

	return r
}
