package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller-facing boundary. The HTTP
// layer maps kinds to status codes; internal store errors never cross
// the boundary with their original details.
type Kind string

const (
	KindInvalidArgument  Kind = "invalid_argument"
	KindNotFound         Kind = "not_found"
	KindAlreadyExists    Kind = "already_exists"
	KindUnauthenticated  Kind = "unauthenticated"
	KindPermissionDenied Kind = "permission_denied"
	KindInternal         Kind = "internal"
)

// Error carries a stable machine-readable kind and a human-readable
// reason key alongside the wrapped cause.
type Error struct {
	Kind   Kind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidArgument reports malformed or out-of-policy input.
func InvalidArgument(reason string) *Error {
	return &Error{Kind: KindInvalidArgument, Reason: reason}
}

// NotFound reports a missing role set, account, profile, expense or blob.
func NotFound(reason string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// AlreadyExists reports a uniqueness violation.
func AlreadyExists(reason string) *Error {
	return &Error{Kind: KindAlreadyExists, Reason: reason}
}

// Unauthenticated reports a call with no requester identity attached.
func Unauthenticated(reason string) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason}
}

// PermissionDenied reports a failed capability check.
func PermissionDenied(reason string) *Error {
	return &Error{Kind: KindPermissionDenied, Reason: reason}
}

// Internal wraps an unexpected error so its details do not leak across
// the boundary.
func Internal(reason string, cause error) *Error {
	return &Error{Kind: KindInternal, Reason: reason, cause: cause}
}

// KindOf returns the kind of err, coercing unclassified errors to
// KindInternal. A nil err has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
