//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/sessionware/internal/adapters/clients"
	"github.com/jsamuelsen/sessionware/internal/adapters/clients/acl"
	"github.com/jsamuelsen/sessionware/internal/adapters/http/middleware"
	"github.com/jsamuelsen/sessionware/internal/platform/config"
	"github.com/jsamuelsen/sessionware/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSessionService is an httptest-backed session service that resolves
// each Cookie header to its own session state, and counts loads per
// cookie so cross-request sharing would show up as a count mismatch.
type fakeSessionService struct {
	mu    sync.Mutex
	loads map[string]int
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{loads: make(map[string]int)}
}

func (f *fakeSessionService) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cookie := r.Header.Get("Cookie")

			f.mu.Lock()
			f.loads[cookie]++
			f.mu.Unlock()

			sid := strings.TrimPrefix(cookie, "web_session=")
			if sid == "" {
				sid = "fresh"
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id": %q, "data": {"origin": %q}}`, sid, sid)

		case http.MethodPut:
			var envelope struct {
				ID string `json:"id"`
			}
			_ = json.NewDecoder(r.Body).Decode(&envelope)

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"set_cookie": ["web_session=%s; Path=/"]}`, envelope.ID)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func (f *fakeSessionService) loadCount(cookie string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.loads[cookie]
}

// newSessionEngine assembles a gin engine with the session middleware
// wired to a real SessionServiceAdapter talking to the fake service.
func newSessionEngine(t *testing.T, baseURL string) *gin.Engine {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "session-store",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   50,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	})
	require.NoError(t, err)

	store := acl.NewSessionServiceAdapter(acl.SessionServiceAdapterConfig{Client: client})

	engine := gin.New()
	engine.Use(middleware.Sessions(middleware.SessionsConfig{
		GetSession:    store.Load,
		CommitSession: store.Commit,
	}))

	engine.GET("/whoami", func(c *gin.Context) {
		sess, err := middleware.Session(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"origin": sess.Get("origin")})
	})

	engine.POST("/touch", func(c *gin.Context) {
		sess, err := middleware.Session(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		sess.Set("touched_at", time.Now().UnixNano())
		c.Status(http.StatusNoContent)
	})

	engine.GET("/multi", func(c *gin.Context) {
		// Hammer the accessor from several goroutines within one request;
		// all must observe the identical handle off a single load.
		var (
			g       errgroup.Group
			handles [8]*session.Handle
		)

		for i := range handles {
			g.Go(func() error {
				h, err := middleware.Session(c)
				handles[i] = h

				return err
			})
		}

		if err := g.Wait(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		for _, h := range handles[1:] {
			if h != handles[0] {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "handle mismatch"})
				return
			}
		}

		c.Status(http.StatusNoContent)
	})

	return engine
}

// TestConcurrent_RequestsAreIsolated fires parallel requests with distinct
// cookies and verifies each resolves its own session state.
func TestConcurrent_RequestsAreIsolated(t *testing.T) {
	service := newFakeSessionService()
	backend := httptest.NewServer(service.handler())
	defer backend.Close()

	engine := newSessionEngine(t, backend.URL)
	front := httptest.NewServer(engine)
	defer front.Close()

	const users = 20

	var g errgroup.Group

	for i := range users {
		g.Go(func() error {
			sid := fmt.Sprintf("user-%d", i)

			req, err := http.NewRequestWithContext(context.Background(),
				http.MethodGet, front.URL+"/whoami", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Cookie", "web_session="+sid)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var body struct {
				Origin string `json:"origin"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}

			if body.Origin != sid {
				return fmt.Errorf("request for %s got session %s", sid, body.Origin)
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())

	for i := range users {
		cookie := fmt.Sprintf("web_session=user-%d", i)
		assert.Equal(t, 1, service.loadCount(cookie), "exactly one load per request for %s", cookie)
	}
}

// TestConcurrent_AccessorWithinRequest verifies that concurrent accessor
// calls inside one request share a single load.
func TestConcurrent_AccessorWithinRequest(t *testing.T) {
	service := newFakeSessionService()
	backend := httptest.NewServer(service.handler())
	defer backend.Close()

	engine := newSessionEngine(t, backend.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/multi", nil)
	req.Header.Set("Cookie", "web_session=multi-user")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, 1, service.loadCount("web_session=multi-user"),
		"eight concurrent accessors must trigger one load")
}

// TestConcurrent_MutatingRequestsCommit verifies that parallel mutating
// requests each get their own committed Set-Cookie header back.
func TestConcurrent_MutatingRequestsCommit(t *testing.T) {
	service := newFakeSessionService()
	backend := httptest.NewServer(service.handler())
	defer backend.Close()

	engine := newSessionEngine(t, backend.URL)
	front := httptest.NewServer(engine)
	defer front.Close()

	const users = 10

	var g errgroup.Group

	for i := range users {
		g.Go(func() error {
			sid := fmt.Sprintf("writer-%d", i)

			req, err := http.NewRequestWithContext(context.Background(),
				http.MethodPost, front.URL+"/touch", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Cookie", "web_session="+sid)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			if resp.StatusCode != http.StatusNoContent {
				return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, sid)
			}

			cookies := resp.Header.Values("Set-Cookie")
			expected := fmt.Sprintf("web_session=%s; Path=/", sid)

			if len(cookies) != 1 || cookies[0] != expected {
				return fmt.Errorf("expected [%s], got %v", expected, cookies)
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}

// TestConcurrent_ReadOnlyRequestsNeverCommit verifies that a burst of
// read-only requests adds no session headers.
func TestConcurrent_ReadOnlyRequestsNeverCommit(t *testing.T) {
	service := newFakeSessionService()
	backend := httptest.NewServer(service.handler())
	defer backend.Close()

	engine := newSessionEngine(t, backend.URL)
	front := httptest.NewServer(engine)
	defer front.Close()

	var g errgroup.Group

	for i := range 10 {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(context.Background(),
				http.MethodGet, front.URL+"/whoami", nil)
			if err != nil {
				return err
			}
			req.Header.Set("Cookie", fmt.Sprintf("web_session=reader-%d", i))

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			if got := resp.Header.Values("Set-Cookie"); len(got) != 0 {
				return fmt.Errorf("read-only request got session header %v", got)
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}
