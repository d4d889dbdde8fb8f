package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/skillmart/backend/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access denied"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"not found", domain.ErrProductNotFound, http.StatusNotFound, "product not found"},
		{"conflict", domain.ErrEmailTaken, http.StatusConflict, "email already registered"},
		{"config never leaks", domain.ErrEmptyRoleSet, http.StatusInternalServerError, "internal error"},
		{"unexpected never leaks", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := mapError(tc.err)
			if status != tc.status {
				t.Fatalf("status %d, want %d", status, tc.status)
			}
			if message != tc.message {
				t.Fatalf("message %q, want %q", message, tc.message)
			}
		})
	}
}

func TestMapErrorWrapped(t *testing.T) {
	wrapped := domain.WrapError(domain.ErrCodeForbidden, "access denied", errors.New("role CUSTOMER not in set"))
	status, message := mapError(wrapped)
	if status != http.StatusForbidden {
		t.Fatalf("status %d", status)
	}
	if message != "access denied" {
		t.Fatalf("message %q", message)
	}
}
