// Package httpfunc adapts the session middleware to single-shot
// request/response functions, the shape edge runtimes and serverless
// platforms invoke: one call handles one request and returns the response
// as its result, with no long-lived server loop around it.
//
// Wrap performs the same inject, invoke, finalize sequence the gin
// middleware spreads across its chain, but synchronously within one call.
// The request and response types are deliberately host-agnostic; a host
// binding only has to map its own representation onto them.
package httpfunc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jsamuelsen/sessionware/internal/session"
)

// Request is the host-agnostic request a wrapped handler receives. Header
// is the only field the session layer reads (the Cookie values); the rest
// passes through untouched.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Response is the host-agnostic response a wrapped handler returns.
// A committed session lands in Header; Status and Body are never modified.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Handler is a single-shot request-to-response function.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Config configures Wrap. GetSession, CommitSession and HandleRequest are
// required; both collaborators are integrator-supplied, never built in.
type Config struct {
	// GetSession loads a session from a request's raw Cookie header value.
	// Runs at most once per invocation, on first accessor call.
	GetSession session.LoadFunc

	// CommitSession serializes a mutated session into response header
	// values. Runs at most once per invocation, and only after a mutating
	// session capability was invoked.
	CommitSession session.CommitFunc

	// HandleRequest is the wrapped request handler.
	HandleRequest Handler

	// HeaderName is the response header committed values are appended to.
	// Defaults to session.DefaultHeader.
	HeaderName string
}

// Wrap returns a Handler with the same signature as cfg.HandleRequest
// that, per invocation:
//
//   - installs a fresh lazy session cell in the context, reachable via
//     session.Get; no load happens until the handler asks
//   - invokes the wrapped handler
//   - if the handler succeeded and mutated the session, commits it and
//     appends the returned values to the session header of the response,
//     preserving every header the handler set (same-named ones included)
//
// A handler error returns as-is with no response and no commit: a
// response that was never produced is not finalized. A commit failure is
// returned instead of the response, since handing back the handler's
// response would confirm session state that was never saved.
func Wrap(cfg Config) (Handler, error) {
	if cfg.GetSession == nil {
		return nil, errors.New("httpfunc: GetSession is required")
	}

	if cfg.CommitSession == nil {
		return nil, errors.New("httpfunc: CommitSession is required")
	}

	if cfg.HandleRequest == nil {
		return nil, errors.New("httpfunc: HandleRequest is required")
	}

	finalizer := session.NewFinalizer(cfg.CommitSession, cfg.HeaderName)

	return func(ctx context.Context, req *Request) (*Response, error) {
		cell := session.NewLazy(cfg.GetSession, cookieHeader(req))
		ctx = session.NewContext(ctx, cell)

		resp, err := cfg.HandleRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp == nil {
			return nil, errors.New("httpfunc: handler returned no response")
		}

		if resp.Header == nil {
			resp.Header = make(http.Header)
		}

		if _, err := finalizer.Finalize(ctx, cell, resp.Header); err != nil {
			return nil, err
		}

		return resp, nil
	}, nil
}

// cookieHeader returns the request's Cookie header value, joining the
// split form HTTP/2 clients may send.
func cookieHeader(req *Request) string {
	if req == nil || req.Header == nil {
		return ""
	}

	values := req.Header.Values("Cookie")

	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, "; ")
	}
}
