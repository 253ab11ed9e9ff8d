// Package router sets up all HTTP routes and middleware chains for the
// wikibase API. It organizes routes into public and authenticated
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wikibase/internal/auth"
	"wikibase/internal/handlers"
	"wikibase/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	tokens *auth.TokenManager,
	authH *handlers.Auth,
	categories *handlers.Categories,
	information *handlers.Information,
	files *handlers.Files,
	users *handlers.Users,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(tokens))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Login is rate-limited per IP to slow credential stuffing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.With(loginLimiter.Middleware).Post("/api/auth/login", authH.Login)

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/categories", categories.List)
		r.Get("/categories/{identifier}", categories.Get)
		r.Get("/categories/{identifier}/information", information.ListByCategory)
		r.Get("/sub-categories/{identifier}/information", information.ListBySubCategory)
		r.Get("/information", information.List)
		r.Get("/information/{identifier}", information.Get)
		r.Get("/information/slug/{category}/{subcategory}/{title}", information.GetBySlug)
		r.Get("/files/{id}", files.Get)
		r.Get("/files/{id}/download", files.DownloadURL)

		// Authenticated writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/profile", authH.Profile)
			r.Post("/auth/totp/setup", authH.TOTPSetup)
			r.Post("/auth/totp/confirm", authH.TOTPConfirm)

			r.Post("/categories", categories.Create)
			r.Put("/categories/{identifier}", categories.Rename)
			r.Delete("/categories/{identifier}", categories.Delete)
			r.Post("/categories/{identifier}/sub-categories", categories.CreateSubCategory)
			r.Delete("/sub-categories/{subIdentifier}", categories.DeleteSubCategory)

			r.Post("/information", information.Create)
			r.Put("/information/{identifier}", information.Update)
			r.Delete("/information/{identifier}", information.Delete)

			r.Post("/files", files.Upload)
			r.Delete("/files/{id}", files.Delete)

			// User management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", users.List)
				r.Post("/", users.Create)
				r.Put("/{id}", users.Update)
				r.Delete("/{id}", users.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
