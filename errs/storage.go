package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Authentication & Authorization Errors
var (
	ErrNoSession        = errors.New("no authenticated session")
	ErrMissingToken     = errors.New("missing access token")
	ErrExpiredToken     = errors.New("expired access token")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrInsufficientRole = errors.New("insufficient role")
)

// Database & Storage Specific Errors
var (
	ErrDatabaseQuery             = errors.New("database query failed")
	ErrDatabaseConnection        = errors.New("database connection failed")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrDatabaseTimeout           = errors.New("database timeout")
	ErrCorruptDocument           = errors.New("corrupt stored document")
	ErrStorageQuotaFull          = errors.New("storage quota full")
)

var Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")

func NewNoSessionError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrNoSession,
		Details:    "sign in before modifying remote projects",
	}
}

func NewInsufficientRoleError(required string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrInsufficientRole,
		Details:    fmt.Sprintf("%s role or above required", required),
	}
}

func NewCorruptDocumentError(projectID string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrCorruptDocument,
		Details:    fmt.Sprintf("stored document for project %s cannot be decoded", projectID),
		Cause:      cause,
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        ErrUniqueConstraintViolation,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "foreign key"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        ErrForeignKeyConstraint,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "record not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        ErrNotFound,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline"):
			return &ApiErr{
				StatusCode: http.StatusGatewayTimeout,
				err:        ErrDatabaseTimeout,
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    details,
				Cause:      cause,
			}
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}

func IsInsufficientRole(err error) bool {
	return errors.Is(err, ErrInsufficientRole)
}

func IsCorruptDocument(err error) bool {
	return errors.Is(err, ErrCorruptDocument)
}
