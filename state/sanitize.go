package state

import (
	"errors"
	"strings"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/repository"
)

const genericFailureMessage = "Something went wrong. Please try again."

// substring rules are checked in order; first match wins
var sanitizeRules = []struct {
	needles []string
	message string
}{
	{[]string{"network", "connection refused", "no such host", "unable to connect"}, "Unable to reach the server. Check your connection and try again."},
	{[]string{"timeout", "timed out", "deadline exceeded"}, "The request took too long. Please try again."},
	{[]string{"permission", "forbidden", "insufficient role"}, "You don't have permission to perform this action."},
	{[]string{"session", "unauthorized", "token"}, "Your session has expired. Please sign in again."},
	{[]string{"duplicate", "already exists"}, "That name is already in use. Choose a different name."},
	{[]string{"quota"}, "Local storage is full. Delete unused projects and try again."},
	{[]string{"not found"}, "The item no longer exists. It may have been deleted elsewhere."},
}

// SanitizeError translates a technical failure into generic user-facing copy,
// intentionally discarding implementation detail. Validation rejections keep
// their first field message since those are already written for users
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	var vErr *repository.ValidationError
	if errors.As(err, &vErr) && len(vErr.Errors) > 0 {
		return vErr.Errors[0].Message
	}

	text := strings.ToLower(errorText(err))
	for _, rule := range sanitizeRules {
		for _, needle := range rule.needles {
			if strings.Contains(text, needle) {
				return rule.message
			}
		}
	}
	return genericFailureMessage
}

// errorText prefers the full wrapped chain when the error carries a cause
func errorText(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.GetFullError()
	}
	return err.Error()
}
