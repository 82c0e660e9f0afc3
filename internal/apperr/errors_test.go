package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Errorf("KindOf(nil) = %q, want empty", KindOf(nil))
	}
	if KindOf(NotFound("expense/not-found")) != KindNotFound {
		t.Errorf("KindOf(not_found) = %q", KindOf(NotFound("expense/not-found")))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Errorf("unclassified errors must coerce to internal")
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler failed: %w", PermissionDenied("permission/admin-required"))
	if !IsKind(err, KindPermissionDenied) {
		t.Errorf("IsKind() through wrapping = false, want true")
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("expense/create-failed", cause)

	if !errors.Is(err, cause) {
		t.Errorf("Internal() does not unwrap to its cause")
	}
	if err.Error() != "internal: expense/create-failed: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := InvalidArgument("expense/amount-not-positive")
	if err.Error() != "invalid_argument: expense/amount-not-positive" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}
