package validation

import (
	"fmt"
	"strings"

	"github.com/blueprintcu/modeler-backend/models"
)

// ValidateField schema-checks a field candidate, then rejects case-insensitive
// name collisions against the sibling list. Updating a field to keep its own
// name is not a collision: comparison excludes the candidate's own ID
func (s *Service) ValidateField(candidate models.Field, existingFields []models.Field) Result[models.Field] {
	errs := s.checkFieldStructure(candidate, "")

	if !s.IsFieldNameUnique(candidate.Name, candidate.ID, existingFields) {
		errs = append(errs, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("field with name %q already exists", candidate.Name),
		})
	}

	if len(errs) > 0 {
		return rejectResult[models.Field](errs)
	}

	normalized := normalizeField(candidate)
	return acceptResult(&normalized)
}

// checkFieldStructure runs the structural rules shared by ValidateField and
// ValidateObject. prefix is prepended to error paths for nested contexts
func (s *Service) checkFieldStructure(f models.Field, prefix string) []FieldError {
	var errs []FieldError

	errs = checkInternalName(errs, prefix+"name", f.Name)
	errs = checkLabel(errs, prefix+"label", f.Label)
	errs = checkMaxLen(errs, prefix+"description", f.Description, fieldDescMaxLen)

	if !f.DataType.IsValid() {
		errs = append(errs, FieldError{
			Field:   prefix + "dataType",
			Message: fmt.Sprintf("unknown data type %q", f.DataType),
		})
	}
	if f.FieldType != "" && !f.FieldType.IsValid() {
		errs = append(errs, FieldError{
			Field:   prefix + "fieldType",
			Message: fmt.Sprintf("unknown field type %q", f.FieldType),
		})
	}

	if f.DataType == models.DataTypeEnumeration {
		if len(f.Options) == 0 {
			errs = append(errs, FieldError{
				Field:   prefix + "options",
				Message: "enumeration fields must define at least one option",
			})
		}
		for i, opt := range f.Options {
			if opt.Label == "" || opt.Value == "" {
				errs = append(errs, FieldError{
					Field:   prefix + "options",
					Message: fmt.Sprintf("option %d must have a non-empty label and value", i),
				})
			}
		}
	}

	if f.FieldType == models.FieldTypeCalculated || f.FieldType == models.FieldTypeLookup {
		if f.Calculation == nil || f.Calculation.CalculationType == "" {
			errs = append(errs, FieldError{
				Field:   prefix + "calculation",
				Message: fmt.Sprintf("%s fields must carry a calculation config", f.FieldType),
			})
		}
	}

	return errs
}

// normalizeField applies schema defaults to a validated candidate
func normalizeField(f models.Field) models.Field {
	if f.FieldType == "" {
		f.FieldType = models.FieldTypeStandard
	}
	if f.DataType == models.DataTypeEnumeration && f.Options == nil {
		f.Options = []models.FieldOption{}
	}
	return f
}

func normalizeFieldList(fields []models.Field) []models.Field {
	normalized := make([]models.Field, len(fields))
	for i, f := range fields {
		normalized[i] = normalizeField(f)
	}
	return normalized
}

// IsFieldNameUnique reports whether no other field in the list carries the
// same name, compared case-insensitively and excluding the record's own ID.
// A record with no ID yet excludes nothing
func (s *Service) IsFieldNameUnique(name, selfID string, fields []models.Field) bool {
	lower := strings.ToLower(name)
	for _, field := range fields {
		if selfID != "" && field.ID == selfID {
			continue
		}
		if strings.ToLower(field.Name) == lower {
			return false
		}
	}
	return true
}
