package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sessionware/internal/platform/telemetry"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// ContextKeySession is the gin context key for the request's session cell.
const ContextKeySession = "session"

// SessionsConfig configures the session middleware.
type SessionsConfig struct {
	// GetSession loads a session from a request's raw Cookie header value.
	// It runs at most once per request, on first access. Required.
	GetSession session.LoadFunc

	// CommitSession serializes a mutated session into response header
	// values. It runs at most once per request, and only when a mutating
	// session capability was invoked. Required.
	CommitSession session.CommitFunc

	// HeaderName is the response header committed values are appended to.
	// Defaults to session.DefaultHeader.
	HeaderName string

	// Logger is the structured logger for commit failures.
	Logger *slog.Logger

	// Metrics records session load/commit outcomes. Optional.
	Metrics *telemetry.SessionMetrics
}

// Sessions returns middleware that gives each request a lazily loaded
// session and persists it on the way out. Per request it:
//
//   - Installs a session cell in both the gin context and the request
//     context. No load happens here; the first accessor call triggers it.
//   - Wraps the response writer so that, immediately before the first
//     response byte, a mutated session is committed and the returned
//     values are appended to the session header (never overwriting
//     headers the handler set, including same-named ones).
//   - Leaves the response untouched when the session was never loaded or
//     only read.
//   - Rewrites the response to a 500 error envelope when the commit
//     fails, since sending the original response would confirm state
//     that was never saved.
//
// Handlers reach the session through [Session] or session.Get on the
// request context. A load failure surfaces there, not here.
//
// Panics if GetSession or CommitSession is nil.
func Sessions(cfg SessionsConfig) gin.HandlerFunc {
	if cfg.GetSession == nil {
		panic("middleware: GetSession is required")
	}

	if cfg.CommitSession == nil {
		panic("middleware: CommitSession is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	load := instrumentedLoad(cfg.GetSession, cfg.Metrics)
	finalizer := session.NewFinalizer(instrumentedCommit(cfg.CommitSession, cfg.Metrics), cfg.HeaderName)

	return func(c *gin.Context) {
		cell := session.NewLazy(load, joinedCookieHeader(c.Request))

		c.Set(ContextKeySession, cell)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), cell))

		writer := &commitWriter{
			ResponseWriter: c.Writer,
			gctx:           c,
			finalizer:      finalizer,
			cell:           cell,
			logger:         logger,
		}
		c.Writer = writer

		c.Next()

		// The handler may have produced a bodiless response (or none at
		// all); commit before gin flushes the status line.
		writer.finalizePending()
	}
}

// Session returns the request's session handle, loading it on first call
// and returning the same handle afterwards. It fails with
// session.ErrNoSession when the Sessions middleware is not installed, and
// with the load error when the load collaborator fails. Load failures are
// not cached; a later call retries.
func Session(c *gin.Context) (*session.Handle, error) {
	cell := sessionCell(c)
	if cell == nil {
		return nil, session.ErrNoSession
	}

	return cell.Get(c.Request.Context())
}

// sessionCell returns the request's lazy session cell, or nil when the
// Sessions middleware did not run.
func sessionCell(c *gin.Context) *session.Lazy {
	if value, exists := c.Get(ContextKeySession); exists {
		if cell, ok := value.(*session.Lazy); ok {
			return cell
		}
	}

	return nil
}

// joinedCookieHeader returns the request's Cookie header value. HTTP/2
// clients may split cookies across several header fields; the load
// collaborator gets them joined back into the single-header form.
func joinedCookieHeader(r *http.Request) string {
	values := r.Header.Values("Cookie")

	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, "; ")
	}
}

// instrumentedLoad wraps a load collaborator with outcome metrics.
// SessionMetrics methods are nil-safe, so no metrics means no-op.
func instrumentedLoad(load session.LoadFunc, metrics *telemetry.SessionMetrics) session.LoadFunc {
	return func(ctx context.Context, cookieHeader string) (session.Session, error) {
		start := time.Now()
		s, err := load(ctx, cookieHeader)
		metrics.RecordLoad(ctx, time.Since(start), err)

		return s, err
	}
}

// instrumentedCommit wraps a commit collaborator with outcome metrics.
func instrumentedCommit(commit session.CommitFunc, metrics *telemetry.SessionMetrics) session.CommitFunc {
	return func(ctx context.Context, s session.Session) ([]string, error) {
		values, err := commit(ctx, s)
		metrics.RecordCommit(ctx, err)

		return values, err
	}
}
