// Package repository is the only layer UI code should call for mutations. It
// enforces validate-then-persist ordering: nothing reaches a storage adapter
// until the validation service has accepted it.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/storage"
	"github.com/blueprintcu/modeler-backend/validation"
)

// ValidationError carries the full rejected-field list through the error
// channel. errors.Is(err, errs.ErrValidationFailed) matches it
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return errs.ErrValidationFailed.Error()
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return errs.ErrValidationFailed
}

// ProjectRepository orchestrates validation and storage. The adapter is held
// behind the interface so it can be swapped at runtime without re-wiring
// callers
type ProjectRepository struct {
	adapter   storage.Adapter
	validator *validation.Service
	logger    zerolog.Logger
}

// NewProjectRepository creates a repository over the given adapter and
// validator
func NewProjectRepository(adapter storage.Adapter, validator *validation.Service) *ProjectRepository {
	return &ProjectRepository{
		adapter:   adapter,
		validator: validator,
		logger:    log.With().Str("serviceName", "projectRepository").Logger(),
	}
}

// SetAdapter swaps the backing store at runtime, e.g. redirecting from local
// scratch storage to the remote store after sign-in
func (r *ProjectRepository) SetAdapter(adapter storage.Adapter) {
	r.adapter = adapter
}

// Validator exposes the validation service for dry-run callers
func (r *ProjectRepository) Validator() *validation.Service {
	return r.validator
}

// GetAllProjects returns every readable project
func (r *ProjectRepository) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	return r.adapter.GetAllProjects(ctx)
}

// GetProject returns one project by ID
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return r.adapter.GetProject(ctx, id)
}

// CreateProject validates and stores a new project. A payload carrying a
// data model is checked structurally and for referential integrity before
// any adapter call
func (r *ProjectRepository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project == nil || project.Name == "" {
		return nil, &ValidationError{Errors: []validation.FieldError{{Field: "name", Message: "project name is required"}}}
	}

	prepared := models.NewProject(project.ID, project.Name, validation.Now())
	if project.Status != "" {
		if !project.Status.IsValid() {
			return nil, &ValidationError{Errors: []validation.FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %q", project.Status)}}}
		}
		prepared.Status = project.Status
	}
	if project.ClientProfile != nil {
		prepared.ClientProfile = project.ClientProfile
	}
	if len(project.DataModel.Objects) > 0 || len(project.DataModel.Associations) > 0 {
		if err := r.checkDataModel(project.DataModel); err != nil {
			return nil, err
		}
		prepared.DataModel = project.DataModel
	}
	if len(project.Tags.Library) > 0 || len(project.Tags.Custom) > 0 {
		prepared.Tags = project.Tags
	}
	if len(project.Journeys) > 0 {
		prepared.Journeys = project.Journeys
	}

	return r.adapter.CreateProject(ctx, prepared)
}

// UpdateProject merges partial updates into a stored project. A data model in
// the payload is validated before any adapter call
func (r *ProjectRepository) UpdateProject(ctx context.Context, id string, updates map[string]any) (*models.Project, error) {
	if raw, ok := updates["dataModel"]; ok {
		dataModel, err := decodeDataModel(raw)
		if err != nil {
			return nil, err
		}
		if err := r.checkDataModel(*dataModel); err != nil {
			return nil, err
		}
	}
	if raw, ok := updates["status"]; ok {
		if s, ok := raw.(string); !ok || !models.ProjectStatus(s).IsValid() {
			return nil, &ValidationError{Errors: []validation.FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %v", raw)}}}
		}
	}

	return r.adapter.UpdateProject(ctx, id, updates)
}

// DeleteProject passes through; the adapter enforces existence and role
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	return r.adapter.DeleteProject(ctx, id)
}

// checkDataModel runs the structural pass then the referential-integrity pass;
// either failure short-circuits with the combined error list
func (r *ProjectRepository) checkDataModel(dataModel models.DataModel) error {
	if res, _ := r.validator.ValidateDataModel(dataModel); !res.Valid {
		return &ValidationError{Errors: res.Errors}
	}
	if res := r.validator.ValidateReferentialIntegrity(dataModel); !res.Valid {
		return &ValidationError{Errors: res.Errors}
	}
	return nil
}

// AddCustomObject validates the candidate, rejects sibling name collisions
// before any adapter write, and normalizes date fields on the accepted
// payload
func (r *ProjectRepository) AddCustomObject(ctx context.Context, projectID string, object models.CustomObject) (*models.CustomObject, error) {
	res := r.validator.ValidateObject(object)
	if !res.Valid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	project, err := r.adapter.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !r.validator.IsObjectNameUnique(object.Name, object.ID, project.DataModel.Objects) {
		return nil, errs.NewDuplicateNameError("object", object.Name)
	}

	normalized := r.validator.NormalizeDateFields(*res.Normalized)
	return r.adapter.AddCustomObject(ctx, projectID, normalized)
}

// UpdateCustomObject passes through; the merge and ID re-pin happen in the
// adapter's shared document helpers
func (r *ProjectRepository) UpdateCustomObject(ctx context.Context, projectID, objectID string, updates map[string]any) (*models.CustomObject, error) {
	if raw, ok := updates["name"]; ok {
		name, _ := raw.(string)
		project, err := r.adapter.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if !r.validator.IsObjectNameUnique(name, objectID, project.DataModel.Objects) {
			return nil, errs.NewDuplicateNameError("object", name)
		}
	}
	return r.adapter.UpdateCustomObject(ctx, projectID, objectID, updates)
}

// DeleteCustomObject passes through; the adapter cascades association removal
func (r *ProjectRepository) DeleteCustomObject(ctx context.Context, projectID, objectID string) error {
	return r.adapter.DeleteCustomObject(ctx, projectID, objectID)
}

// DuplicateCustomObject passes through; the adapter owns copy naming
func (r *ProjectRepository) DuplicateCustomObject(ctx context.Context, projectID, objectID string) (*models.CustomObject, error) {
	return r.adapter.DuplicateCustomObject(ctx, projectID, objectID)
}

// AddField fetches the owning object for its sibling list, validates the
// candidate against it, normalizes dates, then delegates
func (r *ProjectRepository) AddField(ctx context.Context, projectID, objectID string, field models.Field) (*models.Field, error) {
	object, err := r.findObject(ctx, projectID, objectID)
	if err != nil {
		return nil, err
	}

	res := r.validator.ValidateField(field, object.Fields)
	if !res.Valid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	normalized := r.validator.NormalizeFieldDates(*res.Normalized)
	return r.adapter.AddField(ctx, projectID, objectID, normalized)
}

// UpdateField merges the proposed changes onto the stored field so partial
// updates validate as a complete, coherent entity, then delegates. Keeping
// the field's own name is not a duplicate: uniqueness excludes its ID.
//
// This is a read-modify-write with no version guard; two sessions editing the
// same project race last-write-wins
func (r *ProjectRepository) UpdateField(ctx context.Context, projectID, objectID, fieldID string, updates map[string]any) (*models.Field, error) {
	object, err := r.findObject(ctx, projectID, objectID)
	if err != nil {
		return nil, err
	}
	existing := object.FindField(fieldID)
	if existing == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("field %s not found", fieldID))
	}

	merged, err := mergeField(*existing, updates)
	if err != nil {
		return nil, err
	}

	res := r.validator.ValidateField(*merged, object.Fields)
	if !res.Valid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	normalized := r.validator.NormalizeFieldDates(*res.Normalized)
	return r.adapter.UpdateField(ctx, projectID, objectID, fieldID, normalized)
}

// DeleteField passes through
func (r *ProjectRepository) DeleteField(ctx context.Context, projectID, objectID, fieldID string) error {
	return r.adapter.DeleteField(ctx, projectID, objectID, fieldID)
}

// ValidateTag exposes contextual tag validation against the stored project,
// for callers that want a dry-run before a tag mutation
func (r *ProjectRepository) ValidateTag(ctx context.Context, projectID string, tag models.Tag) (validation.Result[models.Tag], error) {
	project, err := r.adapter.GetProject(ctx, projectID)
	if err != nil {
		return validation.Result[models.Tag]{}, err
	}
	return r.validator.ValidateTag(tag, validation.TagContext{
		ExistingTags:     project.AllTags(),
		AvailableObjects: project.DataModel.Objects,
	}), nil
}

func (r *ProjectRepository) findObject(ctx context.Context, projectID, objectID string) (*models.CustomObject, error) {
	project, err := r.adapter.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	object := project.FindObject(objectID)
	if object == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("object %s not found", objectID))
	}
	return object, nil
}

// mergeField shallow-merges an updates map onto a stored field. The
// identifier always survives the merge
func mergeField(existing models.Field, updates map[string]any) (*models.Field, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize stored field", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to decode stored field", err)
	}
	for k, v := range updates {
		doc[k] = v
	}
	doc["id"] = existing.ID

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize merged field", err)
	}
	var out models.Field
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, &ValidationError{Errors: []validation.FieldError{{Field: "", Message: fmt.Sprintf("updates do not fit the field shape: %v", err)}}}
	}
	return &out, nil
}

func decodeDataModel(raw any) (*models.DataModel, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, &ValidationError{Errors: []validation.FieldError{{Field: "dataModel", Message: "data model is not serializable"}}}
	}
	var dataModel models.DataModel
	if err := json.Unmarshal(encoded, &dataModel); err != nil {
		return nil, &ValidationError{Errors: []validation.FieldError{{Field: "dataModel", Message: fmt.Sprintf("data model does not fit the expected shape: %v", err)}}}
	}
	return &dataModel, nil
}
