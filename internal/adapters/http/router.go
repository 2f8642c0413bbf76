package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sessionware/internal/adapters/http/handlers"
	"github.com/jsamuelsen/sessionware/internal/adapters/http/middleware"
	"github.com/jsamuelsen/sessionware/internal/platform/config"
	"github.com/jsamuelsen/sessionware/internal/platform/telemetry"
	"github.com/jsamuelsen/sessionware/internal/ports"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// SessionConfig contains session middleware configuration.
	SessionConfig *config.SessionConfig

	// SessionStore supplies the load/commit collaborator pair for the
	// session middleware.
	SessionStore ports.SessionStore

	// SessionMetrics records session load/commit outcomes. Optional.
	SessionMetrics *telemetry.SessionMetrics

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// AccountHandler handles the session-backed account endpoints.
	AccountHandler *handlers.AccountHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging
//  6. Timeout - request deadline (per API group)
//  7. Sessions - lazy session access + auto-commit (per API group)
//
// Sessions sits inside the timeout middleware: its end-of-request commit
// must run before the timeout's deferred cancel fires, and gin runs
// post-Next code innermost first.
//
// Route groups:
//   - /-/ (internal): Health endpoints, no session, no timeout for probes
//   - /api/v1/ (public API): Session-backed account endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	// Apply global middleware in order
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Register health endpoints (no session, no timeout for probes)
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	// Setup API v1 routes with timeout and session access
	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.SessionStore != nil {
		apiV1.Use(middleware.Sessions(middleware.SessionsConfig{
			GetSession:    cfg.SessionStore.Load,
			CommitSession: cfg.SessionStore.Commit,
			HeaderName:    sessionHeaderName(cfg.SessionConfig),
			Logger:        cfg.Logger,
			Metrics:       cfg.SessionMetrics,
		}))
	}

	// Register API routes
	if cfg.AccountHandler != nil {
		cfg.AccountHandler.RegisterAccountRoutes(apiV1)
	}
}

// sessionHeaderName returns the configured session response header, or ""
// to accept the middleware default.
func sessionHeaderName(cfg *config.SessionConfig) string {
	if cfg == nil {
		return ""
	}

	return cfg.Header
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	sessionCfg *config.SessionConfig,
	store ports.SessionStore,
	healthHandler *handlers.HealthHandler,
	accountHandler *handlers.AccountHandler,
) RouterConfig {
	return RouterConfig{
		Logger:         logger,
		AppConfig:      appCfg,
		SessionConfig:  sessionCfg,
		SessionStore:   store,
		HealthHandler:  healthHandler,
		AccountHandler: accountHandler,
		Timeout:        DefaultRequestTimeout,
	}
}
