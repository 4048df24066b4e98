package backend

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Fatalf("nil error must have empty kind")
	}
	if KindOf(errors.New("x")) != KindInternal {
		t.Fatalf("foreign error must be internal")
	}
	wrapped := fmt.Errorf("ctx: %w", Conflict("email already registered"))
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("expected conflict through wrapping")
	}
	if MessageOf(wrapped, "fallback") != "email already registered" {
		t.Fatalf("unexpected message %q", MessageOf(wrapped, "fallback"))
	}
	if MessageOf(errors.New("sql: boom"), "fallback") != "fallback" {
		t.Fatalf("foreign errors must not leak their text")
	}
}

func TestErrorsIs_ComparesKind(t *testing.T) {
	err := Wrap(KindNotFound, "breed not found", errors.New("no rows"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("kinds differ")
	}
}
