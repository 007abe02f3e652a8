package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		// Conflicts surface as 400, not 409.
		{CodeConflict, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}

	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected unknown codes to fall back to 500, got %d", got)
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error through the wrap chain")
	}
	if typed.Code() != CodeNotFound || typed.Message() != "order not found" {
		t.Fatalf("unexpected typed error: %v", typed)
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped errors")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "db: insert order")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to survive wrapping")
	}
	if err.Error() != "DEPENDENCY_ERROR: db: insert order" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeConflict, "insufficient stock").
		WithDetails(map[string]any{"available": 2})

	details, ok := err.Details().(map[string]any)
	if !ok || details["available"] != 2 {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}
