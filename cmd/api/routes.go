package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	if app.metrics != nil {
		router.Use(app.metrics.Middleware)
	}
	router.Use(app.Recoverer)
	if app.metrics != nil {
		router.Handle("/metrics", app.metrics.Handler())
	}
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(app.RateLimiter)
		r.Use(app.Authenticate)
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.getToken)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.listUsers)
			r.Post("/", app.createUser)
			r.With(app.requireAuthenticatedUser).Get("/me", app.getMe)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateMe)
			r.Get("/{username}", app.getUser)
			r.Patch("/{username}", app.updateUser)
			r.Put("/{username}", app.updateUser)
			r.Delete("/{username}", app.deleteUser)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.Post("/", app.createCategory)
			r.Delete("/{slug}", app.deleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.Post("/", app.createGenre)
			r.Delete("/{slug}", app.deleteGenre)
		})
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.Post("/", app.createTitle)
			r.Route("/{title_id}", func(r chi.Router) {
				r.Get("/", app.getTitle)
				r.Patch("/", app.updateTitle)
				r.Put("/", app.updateTitle)
				r.Delete("/", app.deleteTitle)
				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", app.listReviews)
					r.Post("/", app.createReview)
					r.Route("/{review_id}", func(r chi.Router) {
						r.Get("/", app.getReview)
						r.Patch("/", app.updateReview)
						r.Put("/", app.updateReview)
						r.Delete("/", app.deleteReview)
						r.Route("/comments", func(r chi.Router) {
							r.Get("/", app.listComments)
							r.Post("/", app.createComment)
							r.Get("/{comment_id}", app.getComment)
							r.Patch("/{comment_id}", app.updateComment)
							r.Put("/{comment_id}", app.updateComment)
							r.Delete("/{comment_id}", app.deleteComment)
						})
					})
				})
			})
		})
	})
	return router
}
