// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrValidation, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/sessionware/internal/session"
)

// SessionStore is the outbound contract for session persistence. It is the
// pair of collaborator capabilities the session middleware is configured
// with; the middleware itself never stores, signs, or expires anything.
//
// Wiring into the middleware uses the method values directly:
//
//	middleware.Sessions(middleware.SessionsConfig{
//	    GetSession:    store.Load,
//	    CommitSession: store.Commit,
//	})
type SessionStore interface {
	// Load resolves the session addressed by the request's Cookie header
	// value. An absent or unknown identifier yields a fresh session, not an
	// error; only an undecodable or tampered identifier fails. Returns
	// domain.ErrValidation for rejected identifiers and
	// domain.ErrUnavailable when the backing service is unreachable.
	Load(ctx context.Context, cookieHeader string) (session.Session, error)

	// Commit serializes the session into one or more response header
	// values (typically Set-Cookie values) that persist it. Returns
	// domain.ErrUnavailable when the backing service is unreachable.
	Commit(ctx context.Context, s session.Session) ([]string, error)
}
