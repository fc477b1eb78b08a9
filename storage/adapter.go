// Package storage defines the capability contract any backing store must
// satisfy, and the two interchangeable implementations: a local file-backed
// scratch store and the remote Supabase-style Postgres store.
package storage

import (
	"context"

	"github.com/blueprintcu/modeler-backend/models"
)

// Adapter is the storage contract the repository delegates to. Operations
// return domain values and errors; expected failures (not found, denied
// permission, transport) come back as errs sentinels, never panics. The
// implementations do not serialize concurrent calls against the same project;
// two racing mutations resolve last-write-wins at the store.
type Adapter interface {
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, updates map[string]any) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	AddCustomObject(ctx context.Context, projectID string, object models.CustomObject) (*models.CustomObject, error)
	UpdateCustomObject(ctx context.Context, projectID, objectID string, updates map[string]any) (*models.CustomObject, error)
	DeleteCustomObject(ctx context.Context, projectID, objectID string) error
	DuplicateCustomObject(ctx context.Context, projectID, objectID string) (*models.CustomObject, error)

	AddField(ctx context.Context, projectID, objectID string, field models.Field) (*models.Field, error)
	UpdateField(ctx context.Context, projectID, objectID, fieldID string, field models.Field) (*models.Field, error)
	DeleteField(ctx context.Context, projectID, objectID, fieldID string) error
}
