// Package session provides lazy, auto-committing session access for one
// HTTP request.
//
// # Lazy loading
//
// A Lazy cell defers the session load until a handler first asks for it,
// then returns the same Handle for the rest of the request:
//
//	handle, err := session.Get(ctx)
//	if err != nil {
//	    return err // the load error, not a silently empty session
//	}
//	theme := handle.Get("theme")
//
// Concurrent callers inside one request share a single load. A failed load
// is not cached; the next call may retry.
//
// # Mutation tracking
//
// The Handle forwards every capability of the wrapped Session and records
// whether any mutating one (Set, Delete, Flash, Clear) was invoked. Reads
// never mark the handle touched, so read-only requests produce no session
// header.
//
// # Finalization
//
// At the end of the request the Finalizer inspects the cell exactly once:
//
//	committed, err := finalizer.Finalize(ctx, lazy, resp.Header())
//
// Never loaded or never touched means the response passes through
// unchanged. Touched means the commit collaborator runs and its header
// values are appended (multi-value, never clobbering handler-set headers).
//
// Note that reading a flash value consumes it inside the wrapped session
// without marking the handle touched; the consumed state persists only when
// a later mutation triggers a commit.
//
// The package owns no storage, signing, or expiry. Both collaborators are
// supplied by the integrator as configuration:
//
//	load   session.LoadFunc   // Cookie header value -> Session
//	commit session.CommitFunc // Session -> response header values
package session
