// Package router sets up all HTTP routes and middleware chains for
// revista. It organizes routes into public, auth and admin groups with
// appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"revista/internal/handlers"
	"revista/internal/middleware"
	"revista/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. loginThrottle locks out repeated failed
// logins per client and username; secure marks the CSRF cookie as TLS-only.
func New(sess *session.Session, loginThrottle *middleware.LoginThrottle, secure bool, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", public.Health)

	// Public read API, served from the content store.
	r.Route("/api", func(r chi.Router) {
		r.Get("/sync", public.SyncStatus)
		r.Get("/search", public.Search)
		r.Get("/trending", public.Trending)

		r.Get("/posts", public.Posts)
		r.Get("/posts/{id}", public.Post)
		r.Get("/publications", public.Publications)
		r.Get("/activities", public.Activities)
		r.Get("/activities/upcoming", public.UpcomingActivities)

		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}", public.Category)

		r.Route("/magazines", func(r chi.Router) {
			r.Get("/", public.Magazines)
			r.Get("/{id}", public.Magazine)
			r.Get("/{id}/articles", public.MagazineArticles)
			r.Get("/{id}/preview", public.MagazinePreview)
		})
	})

	// Admin routes: never cached, CSRF protected.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.CSRF(secure))

		// Session endpoints, reachable without a session.
		r.With(loginThrottle.Middleware).Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.Get("/session", auth.Session)

		// Authenticated editor area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sess))

			r.Get("/dashboard", admin.Dashboard)
			r.Post("/sync", admin.Sync)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostList)
				r.Post("/", admin.PostCreate)
				r.Put("/{id}", admin.PostUpdate)
				r.Delete("/{id}", admin.PostDelete)
			})

			r.Route("/magazines", func(r chi.Router) {
				r.Get("/", admin.MagazineList)
				r.Post("/", admin.MagazineCreate)
				r.Put("/{id}", admin.MagazineUpdate)
				r.Delete("/{id}", admin.MagazineDelete)

				r.Get("/{id}/articles", admin.MagazineArticleList)
				r.Post("/{id}/articles", admin.MagazineArticleCreate)
				r.Put("/{id}/articles/{articleID}", admin.MagazineArticleUpdate)
				r.Delete("/{id}/articles/{articleID}", admin.MagazineArticleDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoryList)
				r.Post("/", admin.CategoryCreate)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/authors", func(r chi.Router) {
				r.Get("/", admin.AuthorList)
				r.Post("/", admin.AuthorCreate)
				r.Put("/{id}", admin.AuthorUpdate)
				r.Delete("/{id}", admin.AuthorDelete)
			})
		})
	})

	return r
}
