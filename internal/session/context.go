package session

import "context"

type ctxKey struct{}

// NewContext stores the request's lazy cell in ctx. Shims call this once
// per request; each request gets a freshly constructed cell.
func NewContext(ctx context.Context, l *Lazy) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext extracts the lazy cell, or nil if no shim ran.
func FromContext(ctx context.Context) *Lazy {
	if ctx == nil {
		return nil
	}

	if l, ok := ctx.Value(ctxKey{}).(*Lazy); ok {
		return l
	}

	return nil
}

// Get is the request-scoped session accessor: it loads the session on
// first use and returns the same mutation-tracking handle on every call.
// It fails with ErrNoSession when no session shim is installed, and with
// the load error when the load collaborator fails.
func Get(ctx context.Context) (*Handle, error) {
	l := FromContext(ctx)
	if l == nil {
		return nil, ErrNoSession
	}

	return l.Get(ctx)
}
