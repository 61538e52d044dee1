package models

import (
	"errors"
	"fmt"
)

type ResponseKind int

const (
	kindInvalid ResponseKind = iota
	KindOK
	KindValidationError
	KindNetworkError
	KindUnauthorized
)

func (k ResponseKind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindValidationError:
		return "VALIDATION_ERROR"
	case KindNetworkError:
		return "NETWORK_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INVALID"
	}
}

type NetworkErrorKind string

const (
	NetworkTimeout           NetworkErrorKind = "TIMEOUT"
	NetworkConnectionFailed  NetworkErrorKind = "CONNECTION_FAILED"
	NetworkServerUnavailable NetworkErrorKind = "SERVER_UNAVAILABLE"
)

var ErrUnauthorized = errors.New("unauthorized")

// ValidationError is a business-rule rejection by the ledger.
type ValidationError struct {
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Code == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// NetworkError is a transport level failure. Ambiguous is set when the
// request may have reached the ledger, so its effect is unknown.
type NetworkError struct {
	Kind      NetworkErrorKind
	Ambiguous bool
	Attempts  int
	Err       error
}

func (e *NetworkError) Error() string {
	msg := string(e.Kind)
	if e.Ambiguous {
		msg += " (outcome unknown)"
	}
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s after %d attempt(s)", msg, e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Response is the result of a ledger call. Exactly one variant is set.
// Use Match to handle it; a zero Response is a programming error.
type Response[T any] struct {
	kind    ResponseKind
	value   T
	invalid *ValidationError
	network *NetworkError
}

func OK[T any](v T) Response[T] {
	return Response[T]{kind: KindOK, value: v}
}

func Invalid[T any](err *ValidationError) Response[T] {
	if err == nil {
		panic("models: Invalid called with nil error")
	}
	return Response[T]{kind: KindValidationError, invalid: err}
}

func NetworkFailure[T any](err *NetworkError) Response[T] {
	if err == nil {
		panic("models: NetworkFailure called with nil error")
	}
	return Response[T]{kind: KindNetworkError, network: err}
}

func Denied[T any]() Response[T] {
	return Response[T]{kind: KindUnauthorized}
}

func (r Response[T]) Kind() ResponseKind { return r.kind }

// Value returns the OK payload and whether the response is OK.
func (r Response[T]) Value() (T, bool) {
	return r.value, r.kind == KindOK
}

// Err returns nil for OK and a typed error otherwise: *ValidationError,
// *NetworkError or ErrUnauthorized.
func (r Response[T]) Err() error {
	switch r.kind {
	case KindOK:
		return nil
	case KindValidationError:
		return r.invalid
	case KindNetworkError:
		return r.network
	case KindUnauthorized:
		return ErrUnauthorized
	default:
		return errors.New("models: zero Response")
	}
}

// CommitUnknown reports a network failure whose mutation may or may not
// have committed.
func (r Response[T]) CommitUnknown() bool {
	return r.kind == KindNetworkError && r.network.Ambiguous
}

// Match dispatches on the variant. Every case has to be supplied.
func Match[T, R any](
	r Response[T],
	ok func(T) R,
	invalid func(*ValidationError) R,
	network func(*NetworkError) R,
	unauthorized func() R,
) R {
	switch r.kind {
	case KindOK:
		return ok(r.value)
	case KindValidationError:
		return invalid(r.invalid)
	case KindNetworkError:
		return network(r.network)
	case KindUnauthorized:
		return unauthorized()
	default:
		panic("models: Match on zero Response")
	}
}

func (r Response[T]) String() string {
	switch r.kind {
	case KindOK:
		return "OK"
	default:
		return fmt.Sprintf("%s: %v", r.kind, r.Err())
	}
}
