package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Business-rule and structural validation errors. These sentinels back the
// validation result objects; they reach the error channel only when a caller
// converts a rejected result into a response.
var (
	ErrValidationFailed       = errors.New("validation failed")
	ErrDuplicateName          = errors.New("name already exists")
	ErrDanglingReference      = errors.New("reference to missing object")
	ErrDependencyCycle        = errors.New("circular dependency")
	ErrIncompleteEnumeration  = errors.New("enumeration has no complete options")
	ErrUnknownRuleType        = errors.New("unknown qualification rule type")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidField           = errors.New("invalid field")
	ErrInvalidEnumMember      = errors.New("value not in enumeration")
	ErrInvalidTimestampFormat = errors.New("unrecognized timestamp format")
)

func NewValidationError(field, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidationFailed,
		Details:    reason,
		Field:      field,
	}
}

func NewDuplicateNameError(entity, name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrDuplicateName,
		Details:    fmt.Sprintf("%s with name %q already exists", entity, name),
		Field:      "name",
	}
}

func NewDanglingReferenceError(associationID, objectID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrDanglingReference,
		Details:    fmt.Sprintf("association %s references missing object %s", associationID, objectID),
	}
}

func NewDependencyCycleError(tagID string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrDependencyCycle,
		Details:    fmt.Sprintf("tag %s participates in a dependency cycle", tagID),
		Field:      "dependencies",
	}
}

func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsDuplicateName(err error) bool {
	return errors.Is(err, ErrDuplicateName)
}

func IsDanglingReference(err error) bool {
	return errors.Is(err, ErrDanglingReference)
}

func IsDependencyCycle(err error) bool {
	return errors.Is(err, ErrDependencyCycle)
}
