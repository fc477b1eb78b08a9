package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/blueprintcu/modeler-backend/models"
)

// ValidateObject checks a custom object candidate against the structural
// schema: naming patterns, length limits and the structural validity of every
// nested field and association. Sibling-object uniqueness is the repository's
// concern; duplicates inside the object's own field list are caught here
func (s *Service) ValidateObject(candidate models.CustomObject) Result[models.CustomObject] {
	var errs []FieldError

	errs = checkInternalName(errs, "name", candidate.Name)
	errs = checkLabel(errs, "label", candidate.Label)
	errs = checkMaxLen(errs, "description", candidate.Description, objectDescMaxLen)

	if len(candidate.APIName) < apiNameMinLen || !internalNameRe.MatchString(candidate.APIName) {
		errs = append(errs, FieldError{
			Field:   "apiName",
			Message: fmt.Sprintf("apiName must be lowercase, start with a letter and be at least %d characters", apiNameMinLen),
		})
	}

	// two entries in one field list are always distinct records, even before
	// identifiers are assigned, so repeats collide regardless of ID
	seenFieldNames := make(map[string]bool, len(candidate.Fields))
	for i, field := range candidate.Fields {
		prefix := fmt.Sprintf("fields[%d].", i)
		errs = append(errs, s.checkFieldStructure(field, prefix)...)

		lower := strings.ToLower(field.Name)
		if seenFieldNames[lower] {
			errs = append(errs, FieldError{
				Field:   prefix + "name",
				Message: fmt.Sprintf("field with name %q already exists on this object", field.Name),
			})
		} else {
			seenFieldNames[lower] = true
		}
	}

	for i, assoc := range candidate.Associations {
		errs = append(errs, s.checkAssociationStructure(assoc, fmt.Sprintf("associations[%d].", i))...)
	}

	if len(errs) > 0 {
		return rejectResult[models.CustomObject](errs)
	}

	normalized := candidate
	normalized.Fields = normalizeFieldList(candidate.Fields)
	if normalized.Associations == nil {
		normalized.Associations = []models.Association{}
	}
	return acceptResult(&normalized)
}

// ValidateAssociation checks UUID shape and enum membership only; whether the
// referenced objects exist is a data-model level concern
func (s *Service) ValidateAssociation(candidate models.Association) Result[models.Association] {
	errs := s.checkAssociationStructure(candidate, "")
	if len(errs) > 0 {
		return rejectResult[models.Association](errs)
	}
	normalized := candidate
	return acceptResult(&normalized)
}

func (s *Service) checkAssociationStructure(a models.Association, prefix string) []FieldError {
	var errs []FieldError
	if a.ID != "" {
		if _, err := uuid.Parse(a.ID); err != nil {
			errs = append(errs, FieldError{Field: prefix + "id", Message: "id must be a UUID"})
		}
	}
	if _, err := uuid.Parse(a.FromObjectID); err != nil {
		errs = append(errs, FieldError{Field: prefix + "fromObjectId", Message: "fromObjectId must be a UUID"})
	}
	if _, err := uuid.Parse(a.ToObjectID); err != nil {
		errs = append(errs, FieldError{Field: prefix + "toObjectId", Message: "toObjectId must be a UUID"})
	}
	if !a.Type.IsValid() {
		errs = append(errs, FieldError{
			Field:   prefix + "type",
			Message: fmt.Sprintf("type must be one of %s, %s, %s", models.AssociationOneToOne, models.AssociationOneToMany, models.AssociationManyToMany),
		})
	}
	return errs
}

// ValidateDataModel runs the object and association checks over an entire data
// model, accumulating one error group per failing entity. Object names must
// also be unique across the model, case-insensitively. It succeeds only if
// every entity passes
func (s *Service) ValidateDataModel(dataModel models.DataModel) (Result[models.DataModel], []EntityErrors) {
	var groups []EntityErrors

	seenObjectNames := make(map[string]bool, len(dataModel.Objects))
	for i, object := range dataModel.Objects {
		res := s.ValidateObject(object)
		entityErrs := res.Errors

		lower := strings.ToLower(object.Name)
		if seenObjectNames[lower] {
			entityErrs = append(entityErrs, FieldError{
				Field:   "name",
				Message: fmt.Sprintf("object with name %q already exists in this project", object.Name),
			})
		} else {
			seenObjectNames[lower] = true
		}

		if len(entityErrs) > 0 {
			name := object.Label
			if name == "" {
				name = object.Name
			}
			groups = append(groups, EntityErrors{
				Entity: "object",
				Index:  i,
				Name:   name,
				Errors: entityErrs,
			})
		}
	}

	for i, assoc := range dataModel.Associations {
		if res := s.ValidateAssociation(assoc); !res.Valid {
			name := assoc.Label
			if name == "" {
				name = assoc.ID
			}
			groups = append(groups, EntityErrors{
				Entity: "association",
				Index:  i,
				Name:   name,
				Errors: res.Errors,
			})
		}
	}

	if len(groups) > 0 {
		var flat []FieldError
		for _, g := range groups {
			for _, e := range g.Errors {
				flat = append(flat, FieldError{
					Field:   fmt.Sprintf("%ss[%d].%s", g.Entity, g.Index, e.Field),
					Message: e.Message,
				})
			}
		}
		return rejectResult[models.DataModel](flat), groups
	}

	normalized := dataModel
	return acceptResult(&normalized), nil
}

// ValidateReferentialIntegrity checks every association endpoint against the
// set of object identifiers in the data model. Each dangling reference
// produces one error naming the offending identifier
func (s *Service) ValidateReferentialIntegrity(dataModel models.DataModel) Result[models.DataModel] {
	objectIDs := make(map[string]bool, len(dataModel.Objects))
	for _, object := range dataModel.Objects {
		objectIDs[object.ID] = true
	}

	var errs []FieldError
	for i, assoc := range dataModel.Associations {
		if !objectIDs[assoc.FromObjectID] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("associations[%d].fromObjectId", i),
				Message: fmt.Sprintf("association references missing object %s", assoc.FromObjectID),
			})
		}
		if !objectIDs[assoc.ToObjectID] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("associations[%d].toObjectId", i),
				Message: fmt.Sprintf("association references missing object %s", assoc.ToObjectID),
			})
		}
	}

	if len(errs) > 0 {
		return rejectResult[models.DataModel](errs)
	}
	normalized := dataModel
	return acceptResult(&normalized)
}

// IsObjectNameUnique reports whether no other object in the list carries the
// same name, compared case-insensitively and excluding the record's own ID.
// A record with no ID yet excludes nothing. Used both internally and by live
// form validators
func (s *Service) IsObjectNameUnique(name, selfID string, objects []models.CustomObject) bool {
	lower := strings.ToLower(name)
	for _, object := range objects {
		if selfID != "" && object.ID == selfID {
			continue
		}
		if strings.ToLower(object.Name) == lower {
			return false
		}
	}
	return true
}
