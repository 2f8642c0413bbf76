package session

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned by Get when no session middleware ran for the
// request, so no lazy cell was installed in the context.
var ErrNoSession = errors.New("no session middleware in request context")

// Op identifies which collaborator operation failed.
type Op string

const (
	// OpLoad is the "load session from request" collaborator.
	OpLoad Op = "load"

	// OpCommit is the "serialize session into header values" collaborator.
	OpCommit Op = "commit"
)

// OpError wraps a collaborator failure with the operation that produced
// it, so callers can branch on the stage without string matching.
type OpError struct {
	Op  Op
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

// Unwrap returns the collaborator's error for errors.Is/As support.
func (e *OpError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err came from the load collaborator.
func IsLoadError(err error) bool {
	var opErr *OpError

	return errors.As(err, &opErr) && opErr.Op == OpLoad
}

// IsCommitError reports whether err came from the commit collaborator.
func IsCommitError(err error) bool {
	var opErr *OpError

	return errors.As(err, &opErr) && opErr.Op == OpCommit
}
