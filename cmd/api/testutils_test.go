package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/lib/logger"
	"reviewhub/proj/internal/lib/metrics"
	"reviewhub/proj/internal/lib/ratelimit"
	"reviewhub/proj/internal/services"
	"reviewhub/proj/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

type testMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *testMailer) Send(recipient, tmplName string, tmplData any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data := tmplData.(map[string]any)
	m.codes[data["username"].(string)] = data["confirmationCode"].(string)
	return nil
}

func (m *testMailer) code(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[username]
}

type testEnv struct {
	app    *Application
	store  *memory.Store
	mailer *testMailer
	server *httptest.Server
}

func testConfig() *config.Config {
	return &config.Config{
		AppSecret: testSecret,
		Storage:   config.StorageMemory,
		Tokens:    config.Tokens{AccessTTL: time.Hour},
	}
}

// NewTestApplication wires the application to a fresh in-memory store.
// A nil limiter disables rate limiting.
func NewTestApplication(t *testing.T, limiter ratelimit.Limiter) *testEnv {
	t.Helper()
	cfg := testConfig()
	cfg.Limiter.Enabled = limiter != nil
	log := logger.Discard()
	store := memory.New()
	mailer := &testMailer{codes: make(map[string]string)}
	svcs := services.New(log, cfg, services.Storage{
		Users:      store.Users,
		Categories: store.Categories,
		Genres:     store.Genres,
		Titles:     store.Titles,
		Reviews:    store.Reviews,
		Comments:   store.Comments,
	}, mailer)
	app := NewApplication(cfg, log, svcs, limiter, metrics.New())
	server := httptest.NewServer(app.routes())
	t.Cleanup(server.Close)
	return &testEnv{app: app, store: store, mailer: mailer, server: server}
}

// createUser inserts an active user directly and returns a bearer token for it.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) string {
	t.Helper()
	user, err := e.store.Users.Insert(context.Background(), &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	token, err := e.app.Services.Auth.NewAccessToken(user.ID)
	require.NoError(t, err)
	return token
}

type testResponse struct {
	status int
	header http.Header
	body   Response
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) testResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(data)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	res := testResponse{status: resp.StatusCode, header: resp.Header}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &res.body), string(raw))
	}
	return res
}

// field digs a value out of the response data by a path of keys.
func (r testResponse) field(keys ...string) any {
	var cur any = map[string]any(r.body.Data)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}
