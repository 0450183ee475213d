/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/status           Dashboard read model
  /api/tasks/*          Task completions
  /api/goals/*          One-time goals
  /api/shop/*           Purchases
  /api/gifts/*          Gift acceptance
  /api/roulette/*       Daily roulette
  /api/history/*        Day/month breakdowns
  /api/admin/*          Corrections and catalog management

SECURITY NOTE:
  No authentication middleware. This is a single-user system intended to
  run behind a reverse proxy that handles auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.GetStatus)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/{id}/minutes", h.AddMinutes)
			r.Post("/{id}/check", h.CheckTask)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/{id}/complete", h.CompleteGoal)
		})

		r.Route("/shop", func(r chi.Router) {
			r.Post("/{id}/purchase", h.PurchaseItem)
		})
		r.Get("/purchases", h.ListPurchases)

		r.Route("/gifts", func(r chi.Router) {
			r.Post("/{id}/accept", h.AcceptGift)
		})

		r.Route("/roulette", func(r chi.Router) {
			r.Get("/today", h.GetRoulette)
			r.Post("/spin", h.SpinRoulette)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/day", h.GetDayHistory)
			r.Get("/month", h.GetMonthHistory)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Put("/days/{date}", h.EditDay)
			r.Post("/balance/adjust", h.AdjustBalance)
			r.Post("/balance/set", h.SetBalance)
			r.Post("/gifts", h.CreateGift)
			r.Put("/tasks", h.ReplaceTasks)
			r.Put("/goals", h.ReplaceGoals)
			r.Put("/shop", h.ReplaceShop)
			r.Post("/maintenance", h.RunMaintenance)
		})
	})

	return r
}
