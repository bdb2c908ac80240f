package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/ratelimit"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app := NewTestApplication(t, nil).app
	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(context.WithValue(request.Context(), CtxKeyUser, &models.User{
			ID:       1,
			Username: "test",
			Email:    "test@gmail.com",
		}))
		app.requireAuthenticatedUser(http.HandlerFunc(okHandler)).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(context.WithValue(request.Context(), CtxKeyUser, models.AnonymousUser))
		app.requireAuthenticatedUser(http.HandlerFunc(okHandler)).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
	})
}

func TestAuthenticate(t *testing.T) {
	env := NewTestApplication(t, nil)
	token := env.createUser(t, "alice", models.RoleUser)

	var seen *models.User
	handler := env.app.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = currentUser(r)
		w.WriteHeader(http.StatusOK)
	}))
	serve := func(header string) *httptest.ResponseRecorder {
		seen = nil
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("no header", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, seen.IsAnonymous())
	})
	t.Run("valid token", func(t *testing.T) {
		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "alice", seen.Username)
	})
	t.Run("wrong scheme", func(t *testing.T) {
		rec := serve("Token " + token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})
	t.Run("garbage token", func(t *testing.T) {
		rec := serve("Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("backend down")
}

func TestRateLimiter(t *testing.T) {
	t.Run("rejects over the burst", func(t *testing.T) {
		env := NewTestApplication(t, ratelimit.NewMemory(0.001, 1))
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil).status)
		res := env.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil)
		assert.Equal(t, http.StatusTooManyRequests, res.status)
		assert.False(t, res.body.Success)
		assert.Equal(t, float64(1), testutil.ToFloat64(env.app.metrics.RateLimitedTotal))
	})
	t.Run("limiter failure", func(t *testing.T) {
		env := NewTestApplication(t, failingLimiter{})
		assert.Equal(t, http.StatusInternalServerError, env.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil).status)
	})
	t.Run("disabled", func(t *testing.T) {
		env := NewTestApplication(t, nil)
		for range 5 {
			assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil).status)
		}
	})
}

func TestRecoverer(t *testing.T) {
	app := NewTestApplication(t, nil).app
	for name, value := range map[string]any{
		"error":  errors.New("boom"),
		"string": "boom",
	} {
		t.Run(name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			app.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			})).ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
			assert.Equal(t, "close", recorder.Header().Get("Connection"))
		})
	}
}
