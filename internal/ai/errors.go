package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies model query failures.
type ErrorKind string

const (
	KindMissingCredentials ErrorKind = "missing_credentials"
	KindUnsupportedBackend ErrorKind = "unsupported_backend"
	KindUpstreamFailure    ErrorKind = "upstream_failure"
	KindTimeout            ErrorKind = "timeout"
)

// Error is returned by every failing Client.Query call.
type Error struct {
	Kind    ErrorKind
	Backend string
	Err     error
}

func (e *Error) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("llm %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("llm %s (%s): %v", e.Kind, e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Errors that did not come from this
// package are classified as timeouts or upstream failures. nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if isTimeout(err) {
		return KindTimeout
	}
	return KindUpstreamFailure
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func missingCredentials(backend, envVar string) *Error {
	return &Error{Kind: KindMissingCredentials, Backend: backend, Err: fmt.Errorf("missing %s", envVar)}
}

func upstreamf(backend, format string, args ...any) *Error {
	return &Error{Kind: KindUpstreamFailure, Backend: backend, Err: fmt.Errorf(format, args...)}
}

// transportError wraps an error from the HTTP layer, separating timeouts
// from every other failure.
func transportError(backend string, err error) *Error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Backend: backend, Err: err}
	}
	return &Error{Kind: KindUpstreamFailure, Backend: backend, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
