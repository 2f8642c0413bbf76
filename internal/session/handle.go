package session

import "sync/atomic"

// Handle wraps one Session for the lifetime of one request and records
// whether any mutating capability was invoked. It exposes the same
// capability set as the wrapped Session, so handler code uses it as the
// session itself.
//
// The handle must not be retained past the request boundary.
type Handle struct {
	wrapped Session
	touched atomic.Bool
}

var _ Session = (*Handle)(nil)

func newHandle(s Session) *Handle {
	return &Handle{wrapped: s}
}

// ID forwards to the wrapped session. Read, never marks touched.
func (h *Handle) ID() string {
	return h.wrapped.ID()
}

// Has forwards to the wrapped session. Read, never marks touched.
func (h *Handle) Has(key string) bool {
	return h.wrapped.Has(key)
}

// Get forwards to the wrapped session. Read, never marks touched, even
// though reading a flashed value consumes it inside the wrapped session.
func (h *Handle) Get(key string) any {
	return h.wrapped.Get(key)
}

// Keys forwards to the wrapped session. Read, never marks touched.
func (h *Handle) Keys() []string {
	return h.wrapped.Keys()
}

// Snapshot forwards to the wrapped session. Read, never marks touched.
func (h *Handle) Snapshot() map[string]any {
	return h.wrapped.Snapshot()
}

// Set forwards to the wrapped session and marks the handle touched.
func (h *Handle) Set(key string, value any) {
	h.wrapped.Set(key, value)
	h.touched.Store(true)
}

// Delete forwards to the wrapped session and marks the handle touched.
func (h *Handle) Delete(key string) {
	h.wrapped.Delete(key)
	h.touched.Store(true)
}

// Flash forwards to the wrapped session and marks the handle touched.
func (h *Handle) Flash(key string, value any) {
	h.wrapped.Flash(key, value)
	h.touched.Store(true)
}

// Clear forwards to the wrapped session and marks the handle touched.
func (h *Handle) Clear() {
	h.wrapped.Clear()
	h.touched.Store(true)
}

// Touched reports whether any mutating capability ran on this handle.
func (h *Handle) Touched() bool {
	return h.touched.Load()
}

// Unwrap returns the wrapped Session for serialization by the commit
// collaborator.
func (h *Handle) Unwrap() Session {
	return h.wrapped
}
