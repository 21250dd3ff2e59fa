// Package vmerr is the error vocabulary shared by every hypervisor driver.
// Whatever a backend reports, a driver returns one *Error with one Kind.
package vmerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a driver failure
type Kind int

// Failure kinds
const (
	// KindNone is the kind of a nil error
	KindNone Kind = iota
	// LaunchFailure means the tool or service could not be reached or started
	LaunchFailure
	// Timeout means the configured time budget was exceeded
	Timeout
	// AuthenticationFailure means guest or API credentials were rejected
	AuthenticationFailure
	// NotFound means the VM, snapshot or path does not exist
	NotFound
	// ParseFailure means the output matched no known pattern
	ParseFailure
	// BackendError is any other failure reported by the backend
	BackendError
	// UnsupportedOperation means the backend cannot do what was asked
	UnsupportedOperation
)

var kindNames = [...]string{
	KindNone:              "none",
	LaunchFailure:         "launch failure",
	Timeout:               "timeout",
	AuthenticationFailure: "authentication failure",
	NotFound:              "not found",
	ParseFailure:          "parse failure",
	BackendError:          "backend error",
	UnsupportedOperation:  "unsupported operation",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a normalized driver failure
type Error struct {
	Kind Kind
	// Backend and Op name where the failure happened, e.g. "vbox" and "start".
	Backend string
	Op      string
	// Detail is the raw diagnostic text reported by the backend.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Backend != "" {
		b.WriteString(e.Backend)
		b.WriteString(": ")
	}
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel() {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) sentinel() bool {
	return e.Backend == "" && e.Op == "" && e.Detail == "" && e.Err == nil
}

// Sentinels for errors.Is
var (
	ErrLaunchFailure         = &Error{Kind: LaunchFailure}
	ErrTimeout               = &Error{Kind: Timeout}
	ErrAuthenticationFailure = &Error{Kind: AuthenticationFailure}
	ErrNotFound              = &Error{Kind: NotFound}
	ErrParseFailure          = &Error{Kind: ParseFailure}
	ErrBackendError          = &Error{Kind: BackendError}
	ErrUnsupportedOperation  = &Error{Kind: UnsupportedOperation}
)

// New returns an error of the given kind carrying detail
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: strings.TrimSpace(detail)}
}

// Newf is New with a formatted detail
func Newf(kind Kind, format string, a ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, a...))
}

// Wrap returns an error of the given kind caused by err
func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: strings.TrimSpace(detail), Err: err}
}

// Unsupported reports that backend cannot perform op
func Unsupported(backend, op string) *Error {
	return &Error{Kind: UnsupportedOperation, Backend: backend, Op: op, Detail: "not available on this backend"}
}

// KindOf returns the kind of err. Errors that did not come from a driver
// are BackendError.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return BackendError
}

// Retryable reports whether repeating the call may succeed without
// operator intervention. ParseFailure and BackendError never are.
func Retryable(err error) bool {
	switch KindOf(err) {
	case Timeout, LaunchFailure:
		return true
	}
	return false
}

// Annotate stamps backend and op onto *errp. Foreign errors are wrapped as
// BackendError so nothing unclassified crosses the driver boundary.
func Annotate(errp *error, backend, op string) {
	if errp == nil || *errp == nil {
		return
	}
	var e *Error
	if !errors.As(*errp, &e) {
		*errp = &Error{Kind: BackendError, Backend: backend, Op: op, Err: *errp}
		return
	}
	if e.sentinel() {
		*errp = &Error{Kind: e.Kind, Backend: backend, Op: op}
		return
	}
	if e.Backend == "" {
		e.Backend = backend
	}
	if e.Op == "" {
		e.Op = op
	}
}
