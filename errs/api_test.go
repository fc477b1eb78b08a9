package errs

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewDatabaseErrorClassifiesCauses(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		sentinel   error
		statusCode int
	}{
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "idx"`), ErrUniqueConstraintViolation, http.StatusConflict},
		{"foreign key", errors.New("violates foreign key constraint"), ErrForeignKeyConstraint, http.StatusConflict},
		{"record not found", errors.New("record not found"), ErrNotFound, http.StatusNotFound},
		{"timeout", errors.New("statement timeout"), ErrDatabaseTimeout, http.StatusGatewayTimeout},
		{"deadline", errors.New("context deadline exceeded"), ErrDatabaseTimeout, http.StatusGatewayTimeout},
		{"connection", errors.New("connection refused"), ErrDatabaseConnection, http.StatusServiceUnavailable},
		{"anything else", errors.New("mystery failure"), ErrDatabaseQuery, http.StatusInternalServerError},
		{"nil cause", nil, ErrDatabaseQuery, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewDatabaseError("create", "project", tc.cause)
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.sentinel)
			}
			if err.StatusCode != tc.statusCode {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tc.statusCode)
			}
		})
	}
}

func TestApiErrErrorAndCauseChain(t *testing.T) {
	inner := errors.New("connection reset by peer")
	err := NewDatabaseError("update", "project", inner)

	if !strings.Contains(err.Error(), "Failed to update project") {
		t.Errorf("Error() = %q, want the operation details", err.Error())
	}
	full := err.GetFullError()
	if !strings.Contains(full, "connection reset by peer") {
		t.Errorf("GetFullError() = %q, want the underlying cause", full)
	}
}

func TestSentinelCheckers(t *testing.T) {
	if !IsNotFound(NewDatabaseError("load", "project", errors.New("record not found"))) {
		t.Error("IsNotFound should match the classified database error")
	}
	if !IsNoSession(NewNoSessionError()) {
		t.Error("IsNoSession should match NewNoSessionError")
	}
	if !IsInsufficientRole(NewInsufficientRoleError("owner")) {
		t.Error("IsInsufficientRole should match NewInsufficientRoleError")
	}
	if !IsDuplicateName(NewDuplicateNameError("object", "member")) {
		t.Error("IsDuplicateName should match NewDuplicateNameError")
	}
	if IsNotFound(NewBadRequestError("nope")) {
		t.Error("IsNotFound should not match an unrelated error")
	}
}
