package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/validation"
)

// LocalStorageKey is the fixed key the scratch store lives under, kept in
// step with the browser build so exported scratch files interchange
const LocalStorageKey = "bcu_modeler_projects"

// LocalAdapter persists all projects as one serialized array in a single
// file. Scratch storage is best-effort: a corrupt file reads as "no
// projects" rather than an error
type LocalAdapter struct {
	path   string
	logger zerolog.Logger

	mu sync.Mutex
}

// NewLocalAdapter creates a local adapter rooted at dir. The backing file is
// created lazily on first write
func NewLocalAdapter(dir string) *LocalAdapter {
	return &LocalAdapter{
		path:   filepath.Join(dir, LocalStorageKey+".json"),
		logger: log.With().Str("adapterName", "local").Logger(),
	}
}

// load reads the full project list. Missing or corrupt files read as empty
func (a *LocalAdapter) load() []*models.Project {
	raw, err := os.ReadFile(a.path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn().Err(err).Str("path", a.path).Msg("scratch store unreadable, treating as empty")
		}
		return []*models.Project{}
	}

	var projects []*models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		a.logger.Warn().Err(err).Str("path", a.path).Msg("scratch store corrupt, treating as empty")
		return []*models.Project{}
	}
	return projects
}

func (a *LocalAdapter) store(projects []*models.Project) error {
	raw, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to serialize scratch store", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return errs.NewInternalErrorWithCause("failed to create scratch store directory", err)
	}
	if err := os.WriteFile(a.path, raw, 0o644); err != nil {
		return errs.NewInternalErrorWithCause("failed to write scratch store", err)
	}
	return nil
}

// mutate runs fn against the loaded project list under the adapter lock,
// persisting the list when fn succeeds
func (a *LocalAdapter) mutate(fn func(projects []*models.Project) ([]*models.Project, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	projects, err := fn(a.load())
	if err != nil {
		return err
	}
	return a.store(projects)
}

// Snapshot copies the scratch store to a .bak file beside it. The auto-save
// loop calls this on an interval; a store that has never been written is not
// an error
func (a *LocalAdapter) Snapshot(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.NewInternalErrorWithCause("failed to read scratch store for backup", err)
	}
	if err := os.WriteFile(a.path+".bak", raw, 0o644); err != nil {
		return errs.NewInternalErrorWithCause("failed to write scratch store backup", err)
	}
	return nil
}

func findProject(projects []*models.Project, id string) *models.Project {
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// GetAllProjects returns every project in the scratch store
func (a *LocalAdapter) GetAllProjects(_ context.Context) ([]*models.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(), nil
}

// GetProject returns one project by ID
func (a *LocalAdapter) GetProject(_ context.Context, id string) (*models.Project, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	project := findProject(a.load(), id)
	if project == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", id))
	}
	return project, nil
}

// CreateProject stores a new project, assigning an identifier when the caller
// did not supply one
func (a *LocalAdapter) CreateProject(_ context.Context, project *models.Project) (*models.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := validation.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		if findProject(projects, project.ID) != nil {
			return nil, errs.NewConflictError(fmt.Sprintf("project %s already exists", project.ID))
		}
		return append(projects, project), nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject merges partial updates into the stored document
func (a *LocalAdapter) UpdateProject(_ context.Context, id string, updates map[string]any) (*models.Project, error) {
	var merged *models.Project
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		current := findProject(projects, id)
		if current == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", id))
		}
		out, err := mergeProject(current, updates)
		if err != nil {
			return nil, err
		}
		*current = *out
		merged = current
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// DeleteProject removes the project from the scratch store
func (a *LocalAdapter) DeleteProject(_ context.Context, id string) error {
	return a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		for i, p := range projects {
			if p.ID == id {
				return append(projects[:i], projects[i+1:]...), nil
			}
		}
		return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", id))
	})
}

// AddCustomObject appends an object to the project's data model
func (a *LocalAdapter) AddCustomObject(_ context.Context, projectID string, object models.CustomObject) (*models.CustomObject, error) {
	var added *models.CustomObject
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		added = addObject(project, object)
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateCustomObject merges partial updates into a stored object
func (a *LocalAdapter) UpdateCustomObject(_ context.Context, projectID, objectID string, updates map[string]any) (*models.CustomObject, error) {
	var updated *models.CustomObject
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		out, err := updateObject(project, objectID, updates)
		if err != nil {
			return nil, err
		}
		updated = out
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCustomObject removes an object and cascades association removal
func (a *LocalAdapter) DeleteCustomObject(_ context.Context, projectID, objectID string) error {
	return a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		if err := deleteObject(project, objectID); err != nil {
			return nil, err
		}
		return projects, nil
	})
}

// DuplicateCustomObject deep-copies an object under fresh identifiers
func (a *LocalAdapter) DuplicateCustomObject(_ context.Context, projectID, objectID string) (*models.CustomObject, error) {
	var copied *models.CustomObject
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		out, err := duplicateObject(project, objectID)
		if err != nil {
			return nil, err
		}
		copied = out
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// AddField appends a field to an object
func (a *LocalAdapter) AddField(_ context.Context, projectID, objectID string, field models.Field) (*models.Field, error) {
	var added *models.Field
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		out, err := addField(project, objectID, field)
		if err != nil {
			return nil, err
		}
		added = out
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateField replaces a stored field with the supplied record
func (a *LocalAdapter) UpdateField(_ context.Context, projectID, objectID, fieldID string, field models.Field) (*models.Field, error) {
	var updated *models.Field
	err := a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		out, err := updateField(project, objectID, fieldID, field)
		if err != nil {
			return nil, err
		}
		updated = out
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteField removes a field from its owning object
func (a *LocalAdapter) DeleteField(_ context.Context, projectID, objectID, fieldID string) error {
	return a.mutate(func(projects []*models.Project) ([]*models.Project, error) {
		project := findProject(projects, projectID)
		if project == nil {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		if err := deleteField(project, objectID, fieldID); err != nil {
			return nil, err
		}
		return projects, nil
	})
}
