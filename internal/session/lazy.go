package session

import (
	"context"
	"errors"
	"sync"
)

// LoadFunc loads a session from a request's Cookie header value. An absent
// identifier should yield a fresh session; only undecodable or tampered
// identifiers should fail.
type LoadFunc func(ctx context.Context, cookieHeader string) (Session, error)

// CommitFunc serializes a session into one or more response header values.
type CommitFunc func(ctx context.Context, s Session) ([]string, error)

var errNilSession = errors.New("load returned no session")

// Lazy is the per-request cell that defers the session load until first
// access. At most one load runs per request; concurrent callers during an
// in-flight load await that same load rather than starting another.
type Lazy struct {
	load   LoadFunc
	cookie string

	mu        sync.Mutex
	handle    *Handle
	flight    *flight
	finalized bool
	committed bool
}

// flight is one in-progress load. Its fields are written before done is
// closed and only read after.
type flight struct {
	done   chan struct{}
	handle *Handle
	err    error
}

// NewLazy creates the cell for one request. cookieHeader is the raw Cookie
// header value handed to the load collaborator on first access.
// Panics if load is nil.
func NewLazy(load LoadFunc, cookieHeader string) *Lazy {
	if load == nil {
		panic("session: load function is required")
	}

	return &Lazy{load: load, cookie: cookieHeader}
}

// Get returns the request's session handle, loading it on first call.
// Subsequent calls return the identical handle without reloading. A failed
// load is surfaced to every caller awaiting it and is not cached, so a
// later call starts a fresh load.
//
// A caller whose ctx is canceled while awaiting another caller's load
// unblocks with the context error; the load itself continues for the
// caller that started it.
func (l *Lazy) Get(ctx context.Context) (*Handle, error) {
	l.mu.Lock()

	if l.handle != nil {
		h := l.handle
		l.mu.Unlock()

		return h, nil
	}

	if l.flight != nil {
		fl := l.flight
		l.mu.Unlock()

		select {
		case <-fl.done:
			return fl.handle, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &flight{done: make(chan struct{})}
	l.flight = fl
	l.mu.Unlock()

	s, err := l.load(ctx, l.cookie)
	if err == nil && s == nil {
		err = errNilSession
	}

	l.mu.Lock()

	l.flight = nil

	if err != nil {
		fl.err = &OpError{Op: OpLoad, Err: err}
	} else {
		fl.handle = newHandle(s)
		l.handle = fl.handle
	}

	l.mu.Unlock()
	close(fl.done)

	return fl.handle, fl.err
}

// Handle returns the loaded handle, or nil when no load has succeeded yet.
// It never triggers a load.
func (l *Lazy) Handle() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.handle
}

// Loaded reports whether a session handle exists for this request.
func (l *Lazy) Loaded() bool {
	return l.Handle() != nil
}

// Committed reports whether a finalize pass committed this session.
func (l *Lazy) Committed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.committed
}

// beginFinalize consumes the single finalization slot for this request.
// The first caller wins; later calls report false and must not commit.
func (l *Lazy) beginFinalize() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.finalized {
		return false
	}

	l.finalized = true

	return true
}

func (l *Lazy) markCommitted() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.committed = true
}
