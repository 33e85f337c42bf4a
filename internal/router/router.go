// Package router sets up all HTTP routes and the middleware chain for the
// blog API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
	"blogapi/internal/respond"
)

// New creates the configured Chi router. corsOrigins lists the browser
// origins allowed to call the API with credentials.
func New(blogs *handlers.Blogs, auth *handlers.Auth, health http.Handler, corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(corsOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/health", health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", auth.Signup)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/profile", auth.Profile)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", blogs.List)
		r.Post("/", blogs.Create)

		// Registered ahead of /{id} so "user" is never read as a blog id.
		r.Get("/user/my-blogs", blogs.Mine)

		r.Get("/{id}", blogs.Get)
		r.Put("/{id}", blogs.Update)
		r.Delete("/{id}", blogs.Delete)
		r.Patch("/{id}/state", blogs.ChangeState)
	})

	return r
}
