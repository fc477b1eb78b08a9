// Package validation is the single place where "is this data acceptable to
// persist" is decided. Structural checks (patterns, lengths, enum membership)
// and contextual checks (sibling uniqueness, referential integrity, dependency
// cycles) both live here so the live form validators and the persistence path
// can never diverge.
package validation

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FieldError describes one rejected field. Field is a dotted path into the
// candidate, e.g. "fields[2].options"
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating one entity. Expected rejections are
// reported here, never as Go errors; Normalized is nil unless Valid
type Result[T any] struct {
	Valid      bool         `json:"valid"`
	Normalized *T           `json:"normalizedData,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

func acceptResult[T any](normalized *T) Result[T] {
	return Result[T]{Valid: true, Normalized: normalized}
}

func rejectResult[T any](errs []FieldError) Result[T] {
	return Result[T]{Valid: false, Errors: errs}
}

// EntityErrors groups the errors of one failing entity inside a data model,
// tagged with its index and a best-effort display name
type EntityErrors struct {
	Entity string       `json:"entity"`
	Index  int          `json:"index"`
	Name   string       `json:"name,omitempty"`
	Errors []FieldError `json:"errors"`
}

// Service validates modeled entities before they reach a storage adapter
type Service struct {
	logger zerolog.Logger
}

// NewService creates a validation service
func NewService() *Service {
	return &Service{
		logger: log.With().Str("serviceName", "validation").Logger(),
	}
}

var (
	internalNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	tagNameRe      = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
	hexColorRe     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	labelMinLen       = 1
	labelMaxLen       = 200
	apiNameMinLen     = 5
	objectDescMaxLen  = 1000
	fieldDescMaxLen   = 500
	tagDescMinLen     = 10
	tagDescMaxLen     = 500
)

func checkInternalName(errs []FieldError, path, name string) []FieldError {
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return append(errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen),
		})
	}
	if !internalNameRe.MatchString(name) {
		return append(errs, FieldError{
			Field:   path,
			Message: "name must start with a lowercase letter and contain only lowercase letters, digits and underscores",
		})
	}
	return errs
}

func checkLabel(errs []FieldError, path, label string) []FieldError {
	if len(label) < labelMinLen || len(label) > labelMaxLen {
		return append(errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("label must be between %d and %d characters", labelMinLen, labelMaxLen),
		})
	}
	return errs
}

func checkMaxLen(errs []FieldError, path, value string, max int) []FieldError {
	if len(value) > max {
		return append(errs, FieldError{
			Field:   path,
			Message: fmt.Sprintf("must be at most %d characters", max),
		})
	}
	return errs
}
