package acl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/sessionware/internal/adapters/clients"
	"github.com/jsamuelsen/sessionware/internal/domain"
	"github.com/jsamuelsen/sessionware/internal/platform/config"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// setupSessionAdapter creates a SessionServiceAdapter with a test HTTP server.
func setupSessionAdapter(t *testing.T, handler http.HandlerFunc) *SessionServiceAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "test-session-store",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
	})
	require.NoError(t, err)

	return NewSessionServiceAdapter(SessionServiceAdapterConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// TestNewSessionServiceAdapter_PanicsWithoutClient verifies that the constructor panics when Client is nil.
func TestNewSessionServiceAdapter_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewSessionServiceAdapter(SessionServiceAdapterConfig{
			Client: nil,
			Logger: slog.Default(),
		})
	})
}

// TestNewSessionServiceAdapter_Defaults verifies nil logger and empty name fall back to defaults.
func TestNewSessionServiceAdapter_Defaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, err := clients.New(&clients.Config{
		ServiceName: "test-session-store",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
	})
	require.NoError(t, err)

	adapter := NewSessionServiceAdapter(SessionServiceAdapterConfig{
		Client: client,
		Logger: nil,
	})

	require.NotNil(t, adapter)
	assert.NotNil(t, adapter.logger)
	assert.Equal(t, DefaultSessionServiceName, adapter.Name())
}

// TestSessionServiceAdapter_Name verifies that a configured name overrides the default.
func TestSessionServiceAdapter_Name(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "test-session-store",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
	})
	require.NoError(t, err)

	adapter := NewSessionServiceAdapter(SessionServiceAdapterConfig{
		Client:      client,
		ServiceName: "session-store-eu",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	assert.Equal(t, "session-store-eu", adapter.Name())
}

// TestLoad_Success verifies that session state is fetched and translated.
func TestLoad_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "sid=abc123", r.Header.Get("Cookie"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]any{
			"id": "sess-42",
			"data": map[string]any{
				"user_id":   "user-42",
				"user_name": "Ada",
				"theme":     "dark",
			},
		})
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "sid=abc123")

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-42", sess.ID())
	assert.Equal(t, "user-42", sess.Get("user_id"))
	assert.Equal(t, "Ada", sess.Get("user_name"))
	assert.Equal(t, "dark", sess.Get("theme"))
}

// TestLoad_FreshSession verifies that an empty cookie header still yields a session.
func TestLoad_FreshSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Cookie"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]any{
			"id":   "sess-fresh",
			"data": map[string]any{},
		})
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "")

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-fresh", sess.ID())
	assert.Empty(t, sess.Keys())
}

// TestLoad_ForwardsJoinedCookieHeader verifies the cookie header passes through verbatim.
func TestLoad_ForwardsJoinedCookieHeader(t *testing.T) {
	const joined = "sid=abc123; csrf=xyz; theme_hint=dark"

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, joined, r.Header.Get("Cookie"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]any{
			"id":   "sess-42",
			"data": map[string]any{},
		})
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	_, err := adapter.Load(ctx, joined)

	require.NoError(t, err)
}

// TestLoad_ServerError verifies that a 500 maps to UnavailableError.
func TestLoad_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "sid=abc123")

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), DefaultSessionServiceName)
}

// TestLoad_RejectedCookie verifies that a 400 maps to ValidationError.
func TestLoad_RejectedCookie(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"session cookie rejected"}}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "sid=tampered")

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "session cookie rejected")
}

// TestLoad_InvalidJSON verifies that a malformed body maps to UnavailableError.
func TestLoad_InvalidJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("invalid json {"))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "sid=abc123")

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.True(t, domain.IsUnavailable(err))
}

// TestLoad_MissingID verifies that an envelope without an id is rejected.
func TestLoad_MissingID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"data":{"user_id":"user-42"}}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess, err := adapter.Load(ctx, "sid=abc123")

	require.Error(t, err)
	assert.Nil(t, sess)
	assert.True(t, domain.IsValidation(err))
}

// TestCommit_Success verifies that session state is serialized and Set-Cookie values returned.
func TestCommit_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var envelope struct {
			ID   string         `json:"id"`
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		assert.Equal(t, "sess-42", envelope.ID)
		assert.Equal(t, "user-42", envelope.Data["user_id"])
		assert.Equal(t, "dark", envelope.Data["theme"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]any{
			"set_cookie": []string{"sid=abc123; Path=/; HttpOnly"},
		})
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess := session.New("sess-42", map[string]any{
		"user_id": "user-42",
		"theme":   "dark",
	})

	setCookies, err := adapter.Commit(ctx, sess)

	require.NoError(t, err)
	require.Len(t, setCookies, 1)
	assert.Equal(t, "sid=abc123; Path=/; HttpOnly", setCookies[0])
}

// TestCommit_NoSetCookie verifies that an empty set_cookie list is not an error.
func TestCommit_NoSetCookie(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"set_cookie":[]}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	setCookies, err := adapter.Commit(ctx, session.New("sess-42", nil))

	require.NoError(t, err)
	assert.Empty(t, setCookies)
}

// TestCommit_ServerError verifies that a 503 maps to UnavailableError.
func TestCommit_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	setCookies, err := adapter.Commit(ctx, session.New("sess-42", nil))

	require.Error(t, err)
	assert.Nil(t, setCookies)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), DefaultSessionServiceName)
}

// TestCommit_RejectedID verifies that a 422 for a tampered id maps to ValidationError.
func TestCommit_RejectedID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, err := w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"unknown session id"}}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	setCookies, err := adapter.Commit(ctx, session.New("sess-tampered", nil))

	require.Error(t, err)
	assert.Nil(t, setCookies)
	assert.True(t, domain.IsValidation(err))
}

// TestCommit_IncludesFlashedValues verifies pending flashes survive serialization.
func TestCommit_IncludesFlashedValues(t *testing.T) {
	var committed map[string]any

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			ID   string         `json:"id"`
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		committed = envelope.Data

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"set_cookie":["sid=abc123; Path=/"]}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	sess := session.New("sess-42", nil)
	sess.Flash("notice", "Welcome back!")

	_, err := adapter.Commit(ctx, sess)

	require.NoError(t, err)
	require.NotNil(t, committed)
	assert.Contains(t, committed, "__flash_notice__")
}

// TestSessionServiceAdapter_Check_Success verifies that the health check passes on 200.
func TestSessionServiceAdapter_Check_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"id":"sess-health","data":{}}`))
		if !assert.NoError(t, err) {
			return
		}
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	err := adapter.Check(ctx)

	assert.NoError(t, err)
}

// TestSessionServiceAdapter_Check_Failure verifies that the health check fails on non-200.
func TestSessionServiceAdapter_Check_Failure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	adapter := setupSessionAdapter(t, handler)
	ctx := context.Background()

	err := adapter.Check(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
