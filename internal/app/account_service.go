// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging)
//   - Enforce business rules that span multiple entities
//
// What does NOT belong here:
//   - HTTP/gRPC specifics (that's adapters)
//   - Session persistence (that's the session store adapter)
//   - Core domain logic (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/sessionware/internal/domain"
	"github.com/jsamuelsen/sessionware/internal/platform/logging"
	"github.com/jsamuelsen/sessionware/internal/ports"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// AccountService implements the account use cases on top of session state.
// It never loads or persists sessions itself; callers hand it the session
// resolved for the current request, and the middleware commits whatever the
// use case mutated.
//
// Example usage:
//
//	// In main.go or wire setup
//	flags := ports.NewEnvFlags("")
//	svc := app.NewAccountService(app.AccountServiceConfig{Flags: flags, Logger: logger})
//
//	// In HTTP handler
//	err := svc.SignIn(ctx, sess, req.UserID, req.UserName)
type AccountService struct {
	flags  ports.FeatureFlags
	logger *slog.Logger
}

// AccountServiceConfig contains configuration for the account service.
type AccountServiceConfig struct {
	// Flags gates optional behavior such as the post-login welcome notice.
	// A nil value leaves every gate at its default.
	Flags ports.FeatureFlags

	// Logger receives use-case logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewAccountService creates a new account service with the provided dependencies.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		flags:  cfg.Flags,
		logger: logger.With(slog.String("component", "app.AccountService")),
	}
}

// SignIn records the authenticated user in the session and flashes a welcome
// notice for the next request. Credential verification happens upstream; this
// service only manages what the session remembers.
func (s *AccountService) SignIn(ctx context.Context, sess session.Session, userID, userName string) error {
	logger := s.requestLogger(ctx).With(slog.String("method", "SignIn"))

	// Validate input.
	if userID == "" {
		return fmt.Errorf("validating input: %w", domain.NewValidationError("user_id", "cannot be empty"))
	}

	if userName == "" {
		return fmt.Errorf("validating input: %w", domain.NewValidationError("user_name", "cannot be empty"))
	}

	sess.Set(domain.SessionKeyUserID, userID)
	sess.Set(domain.SessionKeyUserName, userName)

	if s.flags == nil || s.flags.IsEnabled(ctx, "welcome-notice", true) {
		sess.Flash(domain.SessionKeyNotice, domain.NewNotice(domain.NoticeSuccess, "Welcome back, "+userName+"!"))
	}

	logger.InfoContext(ctx, "user signed in", slog.String("user_id", userID))

	return nil
}

// SignOut drops all session state and flashes a sign-out notice. The session
// keeps its identity; only its contents are wiped.
func (s *AccountService) SignOut(ctx context.Context, sess session.Session) {
	logger := s.requestLogger(ctx).With(slog.String("method", "SignOut"))

	sess.Clear()
	sess.Flash(domain.SessionKeyNotice, domain.NewNotice(domain.NoticeInfo, "You have been signed out."))

	logger.InfoContext(ctx, "user signed out")
}

// SetTheme stores the UI theme preference in the session.
func (s *AccountService) SetTheme(ctx context.Context, sess session.Session, theme string) error {
	logger := s.requestLogger(ctx).With(slog.String("method", "SetTheme"), slog.String("theme", theme))

	if !domain.IsValidTheme(theme) {
		return fmt.Errorf("validating input: %w", domain.NewValidationError("theme", "must be one of light, dark, system"))
	}

	sess.Set(domain.SessionKeyTheme, theme)

	logger.InfoContext(ctx, "theme preference stored")

	return nil
}

// Profile assembles the account view from session state. Returns an
// unauthorized error when no user is signed in. Reading the profile leaves
// the session untouched, so profile requests never re-persist the session.
func (s *AccountService) Profile(ctx context.Context, sess session.Session) (*domain.Profile, error) {
	userID, ok := stringValue(sess, domain.SessionKeyUserID)
	if !ok {
		return nil, fmt.Errorf("resolving profile: %w", domain.NewUnauthorizedError("no signed-in user in session"))
	}

	userName, _ := stringValue(sess, domain.SessionKeyUserName)

	theme, ok := stringValue(sess, domain.SessionKeyTheme)
	if !ok {
		theme = domain.DefaultTheme
	}

	return &domain.Profile{
		UserID:   userID,
		UserName: userName,
		Theme:    theme,
	}, nil
}

// PopNotice drains the pending one-time notice, if any. Draining counts as a
// read: the notice stops being served but nothing marks the session dirty.
func (s *AccountService) PopNotice(ctx context.Context, sess session.Session) (domain.Notice, bool) {
	value := sess.Get(domain.SessionKeyNotice)
	if value == nil {
		return domain.Notice{}, false
	}

	notice, ok := domain.NoticeFromValue(value)
	if !ok {
		s.requestLogger(ctx).WarnContext(ctx, "session notice has unexpected type",
			slog.String("type", fmt.Sprintf("%T", value)),
		)

		return domain.Notice{}, false
	}

	return notice, true
}

// requestLogger prefers the request-scoped logger so use-case logs carry the
// request and correlation IDs stamped by the middleware.
func (s *AccountService) requestLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}

	return s.logger
}

func stringValue(sess session.Session, key string) (string, bool) {
	str, ok := sess.Get(key).(string)
	return str, ok
}
