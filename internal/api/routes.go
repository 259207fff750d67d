package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router, middleware stack, and all endpoints.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Post("/subscribe", h.Subscribe)
	r.Get("/unsubscribe", h.UnsubscribeLink)
	r.Post("/unsubscribe/{id}", h.Unsubscribe)

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/send", h.SendCampaign)
	})

	// The webhook is registered by the mail provider, not browsers; it
	// sits outside any CORS expectations but shares the middleware stack.
	r.Post("/webhooks/ses", h.SESWebhook)

	return r
}
