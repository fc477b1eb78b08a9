package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/validation"
)

// The helpers in this file implement the invariants both adapters share:
// identifiers are re-pinned after every merge, create paths stamp fresh
// timestamps, and object deletion cascades association removal from either
// side. Adapters only differ in how they load and persist the document.

// mergeProject applies a partial update onto a stored project by shallow
// key merge, the way the product merges into the stored document. The
// identifier can never be overwritten by the updates map
func mergeProject(current *models.Project, updates map[string]any) (*models.Project, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize stored project", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to decode stored project", err)
	}

	for k, v := range updates {
		doc[k] = v
	}
	// re-pin: the identifier always survives the merge
	doc["id"] = current.ID
	doc["updatedAt"] = validation.Now()

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize merged project", err)
	}
	var out models.Project
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, errs.NewValidationError("", fmt.Sprintf("updates do not fit the project document shape: %v", err))
	}
	return &out, nil
}

// addObject appends a new custom object, stamping identity and timestamps
func addObject(project *models.Project, object models.CustomObject) *models.CustomObject {
	if object.ID == "" {
		object.ID = uuid.NewString()
	}
	now := validation.Now()
	object.CreatedAt = now
	object.UpdatedAt = now
	for i := range object.Fields {
		if object.Fields[i].ID == "" {
			object.Fields[i].ID = uuid.NewString()
		}
		object.Fields[i].CreatedAt = now
		object.Fields[i].UpdatedAt = now
	}

	project.DataModel.Objects = append(project.DataModel.Objects, object)
	project.UpdatedAt = now
	return &project.DataModel.Objects[len(project.DataModel.Objects)-1]
}

// updateObject shallow-merges updates onto the stored object. The object ID
// is re-pinned after the merge
func updateObject(project *models.Project, objectID string, updates map[string]any) (*models.CustomObject, error) {
	object := project.FindObject(objectID)
	if object == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}

	raw, err := json.Marshal(object)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize stored object", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to decode stored object", err)
	}
	for k, v := range updates {
		doc[k] = v
	}
	doc["id"] = objectID
	doc["updatedAt"] = validation.Now()

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize merged object", err)
	}
	var out models.CustomObject
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, errs.NewValidationError("", fmt.Sprintf("updates do not fit the object shape: %v", err))
	}

	*object = out
	project.UpdatedAt = validation.Now()
	return object, nil
}

// deleteObject removes the object and cascades removal of every association
// referencing it from either side. Fields go implicitly with the object
func deleteObject(project *models.Project, objectID string) error {
	idx := -1
	for i := range project.DataModel.Objects {
		if project.DataModel.Objects[i].ID == objectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}

	project.DataModel.Objects = append(project.DataModel.Objects[:idx], project.DataModel.Objects[idx+1:]...)

	kept := project.DataModel.Associations[:0]
	for _, assoc := range project.DataModel.Associations {
		if !assoc.References(objectID) {
			kept = append(kept, assoc)
		}
	}
	project.DataModel.Associations = kept
	project.UpdatedAt = validation.Now()
	return nil
}

// duplicateObject deep-copies an object under fresh identifiers with suffixed
// names so the copy does not collide with the source
func duplicateObject(project *models.Project, objectID string) (*models.CustomObject, error) {
	source := project.FindObject(objectID)
	if source == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}

	copied := *source
	copied.ID = uuid.NewString()
	copied.Name = uniqueCopyName(source.Name, project.DataModel.Objects)
	copied.Label = source.Label + " (Copy)"
	copied.APIName = source.APIName + "_copy"
	copied.IsTemplate = false
	copied.TemplateID = ""

	now := validation.Now()
	copied.CreatedAt = now
	copied.UpdatedAt = now

	copied.Fields = make([]models.Field, len(source.Fields))
	for i, f := range source.Fields {
		nf := f
		nf.ID = uuid.NewString()
		nf.CreatedAt = now
		nf.UpdatedAt = now
		if f.Options != nil {
			nf.Options = append([]models.FieldOption(nil), f.Options...)
		}
		if f.Calculation != nil {
			calc := *f.Calculation
			nf.Calculation = &calc
		}
		copied.Fields[i] = nf
	}
	// associations are relations of the source, not the copy
	copied.Associations = []models.Association{}

	project.DataModel.Objects = append(project.DataModel.Objects, copied)
	project.UpdatedAt = now
	return &project.DataModel.Objects[len(project.DataModel.Objects)-1], nil
}

// uniqueCopyName appends _copy (then _copy2, _copy3, ...) until the name is
// free among the sibling objects
func uniqueCopyName(base string, objects []models.CustomObject) string {
	taken := make(map[string]bool, len(objects))
	for _, o := range objects {
		taken[strings.ToLower(o.Name)] = true
	}

	candidate := base + "_copy"
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s_copy%d", base, n)
	}
	return candidate
}

// addField appends a field to the owning object, stamping identity and
// timestamps
func addField(project *models.Project, objectID string, field models.Field) (*models.Field, error) {
	object := project.FindObject(objectID)
	if object == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}

	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	now := validation.Now()
	field.CreatedAt = now
	field.UpdatedAt = now

	object.Fields = append(object.Fields, field)
	object.UpdatedAt = now
	project.UpdatedAt = now
	return &object.Fields[len(object.Fields)-1], nil
}

// updateField replaces the stored field with the supplied record. The field
// ID is re-pinned so updates can never move a field to a new identity
func updateField(project *models.Project, objectID, fieldID string, field models.Field) (*models.Field, error) {
	object := project.FindObject(objectID)
	if object == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}
	stored := object.FindField(fieldID)
	if stored == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("field %s not found", fieldID))
	}

	field.ID = fieldID
	field.CreatedAt = stored.CreatedAt
	field.UpdatedAt = validation.Now()
	*stored = field

	object.UpdatedAt = field.UpdatedAt
	project.UpdatedAt = field.UpdatedAt
	return stored, nil
}

// deleteField removes a field from its owning object
func deleteField(project *models.Project, objectID, fieldID string) error {
	object := project.FindObject(objectID)
	if object == nil {
		return errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}

	idx := -1
	for i := range object.Fields {
		if object.Fields[i].ID == fieldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewNotFoundError(fmt.Sprintf("field %s not found", fieldID))
	}

	object.Fields = append(object.Fields[:idx], object.Fields[idx+1:]...)
	now := validation.Now()
	object.UpdatedAt = now
	project.UpdatedAt = now
	return nil
}
