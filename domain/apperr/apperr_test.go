package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_String(t *testing.T) {
	err := NotFound("Task not found")
	want := "not_found(404): Task not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantKind   Kind
		wantStatus int
	}{
		{"not found", NotFound("x"), KindNotFound, http.StatusNotFound},
		{"unauthenticated", Unauthenticated("x"), KindUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("x"), KindUnauthorized, http.StatusForbidden},
		{"validation", Validation("x"), KindValidation, http.StatusBadRequest},
		{"conflict", Conflict("x"), KindConflict, http.StatusBadRequest},
		{"persistence", Persistence("x"), KindPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := From(nil); got != nil {
			t.Errorf("From(nil) = %v, want nil", got)
		}
	})

	t.Run("typed error passes through", func(t *testing.T) {
		orig := Forbidden("Not authorized to view this task")
		got := From(orig)
		if got != orig {
			t.Errorf("From() = %v, want original error", got)
		}
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		orig := Validation("Title is required")
		got := From(fmt.Errorf("service call failed: %w", orig))
		if got != orig {
			t.Errorf("From() = %v, want original error", got)
		}
	})

	t.Run("flattened to string survives", func(t *testing.T) {
		orig := Conflict("User with this email already exists")
		flattened := errors.New(orig.Error())
		got := From(flattened)
		if got == nil {
			t.Fatal("From() = nil, want parsed error")
		}
		if got.Kind != KindConflict {
			t.Errorf("Kind = %q, want %q", got.Kind, KindConflict)
		}
		if got.Status != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", got.Status, http.StatusBadRequest)
		}
		if got.Message != orig.Message {
			t.Errorf("Message = %q, want %q", got.Message, orig.Message)
		}
	})

	t.Run("flattened with wrapping prefix", func(t *testing.T) {
		flattened := errors.New("request failed: not_found(404): User not found")
		got := From(flattened)
		if got == nil {
			t.Fatal("From() = nil, want parsed error")
		}
		if got.Kind != KindNotFound || got.Status != 404 || got.Message != "User not found" {
			t.Errorf("From() = %+v, want not_found/404/User not found", got)
		}
	})

	t.Run("untagged error yields nil", func(t *testing.T) {
		if got := From(errors.New("connection refused")); got != nil {
			t.Errorf("From() = %v, want nil", got)
		}
	})

	t.Run("malformed tag yields nil", func(t *testing.T) {
		if got := From(errors.New("validation(abc): nope")); got != nil {
			t.Errorf("From() = %v, want nil", got)
		}
	})
}
