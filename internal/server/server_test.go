package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"github.com/jonathan/talent-match/internal/types"
)

// mustField returns the raw JSON of one top-level field.
func mustField(t *testing.T, body []byte, name string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	raw, ok := m[name]
	require.True(t, ok, "field %q missing", name)
	return string(raw)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])

	env.store.pingErr = errBoom
	w = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/match", nil)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(_ *Config, deps *Deps) {
		deps.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/v1/auth/login", Method: http.MethodPost, Limit: 2, Window: time.Minute},
			},
		}
	})

	login := types.LoginRequest{Email: "nobody@example.com", Password: "x"}
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/v1/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.do(t, http.MethodPost, "/v1/auth/login", "", login)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, `"rate_limit_exceeded"`, mustField(t, w.Body.Bytes(), "error"))

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "u@example.com")
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/v1/resumes", token, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodPatch, "/v1/candidates", token, nil).Code)
}

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:5555"
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, "203.0.113.5", extractClientID(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", extractClientID(req))
}
