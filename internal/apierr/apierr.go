// Package apierr defines the error taxonomy shared by both TickTick backends
// and the unified client. Every failure surfaced to a caller is an *Error
// carrying a Kind from a closed set, so callers can match broadly (any
// *Error) or narrowly (a single kind via errors.Is against the sentinel).
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. The set is closed; new kinds are a breaking
// change for callers that switch over them.
type Kind string

const (
	// KindAuth means a credential or token was rejected by a backend.
	// Re-authentication is out of band; the client never retries.
	KindAuth Kind = "authentication"

	// KindNotFound means the requested entity id does not exist.
	KindNotFound Kind = "not_found"

	// KindValidation means caller input violated a precondition that was
	// checked locally. Nothing was sent to the network.
	KindValidation Kind = "validation"

	// KindRateLimit means the backend signalled throttling. Surfaced
	// immediately; retry policy belongs to the caller.
	KindRateLimit Kind = "rate_limit"

	// KindForbidden means the backend (or a local guard) denied the
	// operation for the authenticated identity.
	KindForbidden Kind = "forbidden"

	// KindServer means a backend-side failure (5xx class). Safe for the
	// caller to retry; the client does not retry internally.
	KindServer Kind = "server"

	// KindConfig means settings were missing or malformed at open time.
	// Fatal to the client instance.
	KindConfig Kind = "configuration"
)

// Sentinel errors, one per kind, for errors.Is matching.
var (
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrRateLimit  = errors.New("rate limited")
	ErrForbidden  = errors.New("forbidden")
	ErrServer     = errors.New("server error")
	ErrConfig     = errors.New("configuration error")
)

// ErrTwoFactorRequired marks the known-unsupported condition where the
// session backend demands two-factor authentication at login. It is always
// wrapped in a KindAuth *Error and never retried.
var ErrTwoFactorRequired = errors.New("two-factor authentication required (not supported)")

var sentinels = map[Kind]error{
	KindAuth:       ErrAuth,
	KindNotFound:   ErrNotFound,
	KindValidation: ErrValidation,
	KindRateLimit:  ErrRateLimit,
	KindForbidden:  ErrForbidden,
	KindServer:     ErrServer,
	KindConfig:     ErrConfig,
}

// Error is the shared base classification for all backend and client
// failures.
type Error struct {
	// Kind is the taxonomy member this failure belongs to.
	Kind Kind

	// Backend identifies the origin: "openapi", "session", or "" for
	// failures raised by the unified client itself.
	Backend string

	// Op is the logical operation that failed (e.g. "createTask").
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("ticktick %s (%s): %s: %v", e.Op, e.Backend, e.Kind, e.Err)
	}
	return fmt.Sprintf("ticktick %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind, so
// errors.Is(err, apierr.ErrNotFound) matches without unwrapping.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New builds an *Error for the given kind.
func New(kind Kind, backend, op string, err error) *Error {
	return &Error{Kind: kind, Backend: backend, Op: op, Err: err}
}

// Newf builds an *Error with a formatted cause.
func Newf(kind Kind, backend, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Backend: backend, Op: op, Err: fmt.Errorf(format, args...)}
}

// Validationf builds a client-side validation error (no backend involved).
func Validationf(op, format string, args ...any) *Error {
	return Newf(KindValidation, "", op, format, args...)
}

// Configf builds a configuration error (no backend involved).
func Configf(op, format string, args ...any) *Error {
	return Newf(KindConfig, "", op, format, args...)
}

// KindOf returns the kind of err if it is (or wraps) an *Error, or "" if it
// carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FromStatus maps an HTTP response status to the taxonomy. The message is
// whatever the backend put in the response body, already truncated by the
// transport.
func FromStatus(backend, op string, status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	err := fmt.Errorf("%s (status %d)", message, status)

	switch {
	case status == http.StatusUnauthorized:
		return New(KindAuth, backend, op, err)
	case status == http.StatusForbidden:
		return New(KindForbidden, backend, op, err)
	case status == http.StatusNotFound:
		return New(KindNotFound, backend, op, err)
	case status == http.StatusTooManyRequests:
		return New(KindRateLimit, backend, op, err)
	case status >= 500:
		return New(KindServer, backend, op, err)
	default:
		// Remaining 4xx responses are requests the backend refused to
		// process; treat as validation so callers never blind-retry.
		return New(KindValidation, backend, op, err)
	}
}

// Phase identifies which half of a two-phase operation failed.
type Phase int

const (
	// PhaseCreate is the first phase (create or locate the child task).
	PhaseCreate Phase = 1
	// PhaseLink is the second phase (establish the parent link).
	PhaseLink Phase = 2
)

// PhaseError reports a partial failure in a two-phase operation such as
// make-subtask. A PhaseLink failure after a successful PhaseCreate leaves an
// orphan task behind; it is not rolled back.
type PhaseError struct {
	Op    string
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("ticktick %s: phase %d failed: %v", e.Op, e.Phase, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *PhaseError) Unwrap() error {
	return e.Err
}
