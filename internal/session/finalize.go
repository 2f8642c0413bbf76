package session

import (
	"context"
	"net/http"
)

// DefaultHeader is the response header session values are appended to
// unless the integrator configures another name.
const DefaultHeader = "Set-Cookie"

// Finalizer applies the end-of-request commit decision to outgoing
// headers. One Finalizer serves all requests of a shim; per-request state
// stays in the Lazy cell.
type Finalizer struct {
	commit CommitFunc
	header string
}

// NewFinalizer creates a finalizer writing to header, or DefaultHeader
// when header is empty. Panics if commit is nil.
func NewFinalizer(commit CommitFunc, header string) *Finalizer {
	if commit == nil {
		panic("session: commit function is required")
	}

	if header == "" {
		header = DefaultHeader
	}

	return &Finalizer{commit: commit, header: header}
}

// Header returns the response header name session values are written to.
func (f *Finalizer) Header() string {
	return f.header
}

// Finalize runs the commit decision for one request, exactly once:
//
//   - no handle was ever loaded: h is left unchanged
//   - handle loaded but never touched: h is left unchanged
//   - handle touched: the commit collaborator runs and every returned
//     value is appended to the session header
//
// Values are appended with Add, never Set, so headers the handler already
// wrote survive, including ones with the session header's own name.
// It reports whether a commit ran. A commit failure is returned as an
// OpError and the response must not be sent as if finalization succeeded.
func (f *Finalizer) Finalize(ctx context.Context, l *Lazy, h http.Header) (bool, error) {
	if l == nil {
		return false, nil
	}

	handle := l.Handle()
	if handle == nil || !handle.Touched() {
		return false, nil
	}

	if !l.beginFinalize() {
		return false, nil
	}

	values, err := f.commit(ctx, handle.Unwrap())
	if err != nil {
		return false, &OpError{Op: OpCommit, Err: err}
	}

	for _, value := range values {
		if value == "" {
			continue
		}

		h.Add(f.header, value)
	}

	l.markCommitted()

	return true, nil
}
