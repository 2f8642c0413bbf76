package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/sessionware/internal/adapters/clients"
	"github.com/jsamuelsen/sessionware/internal/domain"
	"github.com/jsamuelsen/sessionware/internal/platform/logging"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// sessionsPath is the session service's state exchange endpoint. A GET
// resolves the forwarded Cookie header to session state (minting a fresh
// session when the header carries none), a PUT persists state and returns
// the Set-Cookie values the caller must emit.
const sessionsPath = "/v1/sessions"

// DefaultSessionServiceName is used when no service name is configured.
const DefaultSessionServiceName = "session-store"

// SessionServiceAdapterConfig contains configuration for the session store adapter.
type SessionServiceAdapterConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the session service endpoint.
	Client *clients.Client

	// ServiceName identifies the downstream service in errors, logs, and
	// health checks. Defaults to DefaultSessionServiceName.
	ServiceName string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// SessionServiceAdapter implements ports.SessionStore against a remote
// session service. It translates the service's wire envelope to
// session.Session values and HTTP failures to domain errors, so neither
// representation leaks past this boundary.
type SessionServiceAdapter struct {
	BaseAdapter
	logger *slog.Logger
}

// NewSessionServiceAdapter creates a new session store adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewSessionServiceAdapter(cfg SessionServiceAdapterConfig) *SessionServiceAdapter {
	if cfg.Client == nil {
		panic("SessionServiceAdapter: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = DefaultSessionServiceName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionServiceAdapter{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		logger:      logger,
	}
}

// sessionEnvelope is the external DTO for session state.
// This is an internal type - never exposed outside the ACL.
type sessionEnvelope struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// commitResponse is the external DTO returned after persisting state.
type commitResponse struct {
	SetCookie []string `json:"set_cookie"`
}

// Load exchanges the request's Cookie header for the current session state.
// The service mints a fresh session when the header carries no usable
// session cookie, so an empty cookieHeader is not an error.
// Implements ports.SessionStore.
func (a *SessionServiceAdapter) Load(ctx context.Context, cookieHeader string) (session.Session, error) {
	a.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", sessionsPath),
		slog.Bool("has_cookie", cookieHeader != ""))
	a.logger.DebugContext(ctx, "loading session state")

	req, err := a.Client().NewRequest(ctx, http.MethodGet, sessionsPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building load request: %w", err)
	}

	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	body, err := a.DoRequest(ctx, req, "load session", "")
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponseForService[sessionEnvelope](body, a.ServiceName())
	if err != nil {
		return nil, err
	}

	return a.translateSession(ctx, ext)
}

// Commit persists the session's current state and returns the Set-Cookie
// values the service wants emitted on the response.
// Implements ports.SessionStore.
func (a *SessionServiceAdapter) Commit(ctx context.Context, s session.Session) ([]string, error) {
	a.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", sessionsPath),
		slog.String("session_id", s.ID()))
	a.logger.DebugContext(ctx, "committing session state")

	payload, err := json.Marshal(sessionEnvelope{ID: s.ID(), Data: s.Snapshot()})
	if err != nil {
		return nil, fmt.Errorf("encoding session state: %w", err)
	}

	body, err := a.Put(ctx, sessionsPath, bytes.NewReader(payload), "commit session", s.ID())
	if err != nil {
		return nil, err
	}

	ext, err := DecodeResponseForService[commitResponse](body, a.ServiceName())
	if err != nil {
		return nil, err
	}

	a.logger.Log(ctx, logging.LevelTrace, "session state persisted",
		slog.String("session_id", s.ID()),
		slog.Int("set_cookie_count", len(ext.SetCookie)))

	return ext.SetCookie, nil
}

// translateSession converts the wire envelope to a live session.
// This is the core ACL translation function.
func (a *SessionServiceAdapter) translateSession(ctx context.Context, ext *sessionEnvelope) (session.Session, error) {
	// The service mints identifiers, even for fresh sessions. An envelope
	// without one is a malformed response, not an empty session.
	if ext.ID == "" {
		return nil, domain.NewValidationError("id", "missing from session service response")
	}

	a.logger.Log(ctx, logging.LevelTrace, "translated session envelope",
		slog.String("session_id", ext.ID),
		slog.Int("key_count", len(ext.Data)))

	return session.New(ext.ID, ext.Data), nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *SessionServiceAdapter) Name() string {
	return a.ServiceName()
}

// Check performs a health check by loading a fresh session.
// Implements ports.HealthChecker.
func (a *SessionServiceAdapter) Check(ctx context.Context) error {
	resp, err := a.Client().Get(ctx, sessionsPath)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session service returned status %d", resp.StatusCode)
	}

	return nil
}
