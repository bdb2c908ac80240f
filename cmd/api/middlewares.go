package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/models"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil && rec != http.ErrAbortHandler {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.cfg.Limiter.Enabled || app.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		allowed, err := app.limiter.Allow(r.Context(), ip)
		if err != nil {
			app.Http.ServerError(w, r, fmt.Errorf("rate limiter: %w", err), "")
			return
		}
		if !allowed {
			log.Warn("rate limit exceeded", "ip", ip)
			if app.metrics != nil {
				app.metrics.RateLimitedTotal.Inc()
			}
			app.Http.TooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type CtxKey string

const CtxKeyUser CtxKey = "user"

// Authenticate puts the bearer's user, or AnonymousUser, into the request context.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		user := models.AnonymousUser

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			const bearerPrefix = "Bearer "
			token, found := strings.CutPrefix(authHeader, bearerPrefix)
			if !found || token == "" {
				app.log.Debug("Invalid auth header")
				app.Http.Unauthorized(w, r, "Invalid Authorization header, should be 'Bearer <token>'")
				return
			}
			authed, err := app.Services.Auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, errs.ErrUnauthorized) {
					app.Http.Unauthorized(w, r, err.Error())
					return
				}
				app.Http.ServerError(w, r, err, "")
				return
			}
			user = authed
		}
		r = r.WithContext(context.WithValue(r.Context(), CtxKeyUser, user))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r).IsAnonymous() {
			app.Http.Unauthorized(w, r, errs.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
