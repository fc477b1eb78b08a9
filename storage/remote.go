package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/blueprintcu/modeler-backend/auth"
	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/validation"
)

// documentPayload is the JSON column of a project row. Name, status, owner
// and timestamps live in flat columns; everything else lives here
type documentPayload struct {
	ClientProfile map[string]any       `json:"clientProfile"`
	DataModel     models.DataModel     `json:"dataModel"`
	Tags          models.TagCollection `json:"tags"`
	Journeys      []json.RawMessage    `json:"journeys"`
}

// rawTagPayload mirrors documentPayload with undecoded tags, so a single
// malformed historical tag cannot fail the whole read
type rawTagPayload struct {
	ClientProfile map[string]any    `json:"clientProfile"`
	DataModel     models.DataModel  `json:"dataModel"`
	Tags          rawTagCollection  `json:"tags"`
	Journeys      []json.RawMessage `json:"journeys"`
}

type rawTagCollection struct {
	Library []json.RawMessage `json:"library"`
	Custom  []json.RawMessage `json:"custom"`
}

// RemoteAdapter stores projects in the shared Postgres document table with
// per-user authentication and row-level permission checks
type RemoteAdapter struct {
	db       *gorm.DB
	sessions auth.SessionProvider
	logger   zerolog.Logger
}

// NewRemoteAdapter creates a remote adapter over an open connection and a
// session provider
func NewRemoteAdapter(db *gorm.DB, sessions auth.SessionProvider) *RemoteAdapter {
	return &RemoteAdapter{
		db:       db,
		sessions: sessions,
		logger:   log.With().Str("adapterName", "remote").Logger(),
	}
}

// currentUser resolves the caller. No session is a hard authorization error
// on every remote call
func (a *RemoteAdapter) currentUser(ctx context.Context) (string, error) {
	userID, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return "", errs.NewNoSessionError()
	}
	return userID, nil
}

// roleFor returns the caller's role on a project. The owner column grants
// owner role even without a permission row
func (a *RemoteAdapter) roleFor(ctx context.Context, projectID, userID string) (models.PermissionRole, error) {
	var row models.ProjectDocument
	if err := a.db.WithContext(ctx).Select("id", "owner_id").First(&row, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		return "", errs.NewDatabaseError("load", "project", err)
	}
	if row.OwnerID == userID {
		return models.RoleOwner, nil
	}

	var perm models.ProjectPermission
	err := a.db.WithContext(ctx).First(&perm, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", errs.NewDatabaseError("load", "project permission", err)
	}
	return perm.Role, nil
}

// requireRole resolves the caller and checks their role before a mutation
func (a *RemoteAdapter) requireRole(ctx context.Context, projectID string, min models.PermissionRole) (string, error) {
	userID, err := a.currentUser(ctx)
	if err != nil {
		return "", err
	}
	role, err := a.roleFor(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	if !role.AtLeast(min) {
		return "", errs.NewInsufficientRoleError(string(min))
	}
	return userID, nil
}

// encodeDocument converts a project to its persisted row
func encodeDocument(project *models.Project) (*models.ProjectDocument, error) {
	payload := documentPayload{
		ClientProfile: project.ClientProfile,
		DataModel:     project.DataModel,
		Tags:          project.Tags,
		Journeys:      project.Journeys,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to serialize project document", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, project.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, project.UpdatedAt)
	return &models.ProjectDocument{
		ID:        project.ID,
		OwnerID:   project.OwnerID,
		Name:      project.Name,
		Status:    project.Status,
		Data:      datatypes.JSON(data),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// decodeDocument converts a stored row back to a project. Tag arrays decode
// element by element: a malformed tag is dropped and logged, never allowed to
// fail the read
func (a *RemoteAdapter) decodeDocument(row *models.ProjectDocument) (*models.Project, error) {
	var payload rawTagPayload
	if err := json.Unmarshal(row.Data, &payload); err != nil {
		return nil, errs.NewCorruptDocumentError(row.ID, err)
	}

	project := &models.Project{
		ID:            row.ID,
		Name:          row.Name,
		Status:        row.Status,
		OwnerID:       row.OwnerID,
		ClientProfile: payload.ClientProfile,
		DataModel:     payload.DataModel,
		Tags: models.TagCollection{
			Library: a.decodeTags(row.ID, "library", payload.Tags.Library),
			Custom:  a.decodeTags(row.ID, "custom", payload.Tags.Custom),
		},
		Journeys:  payload.Journeys,
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: row.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if project.ClientProfile == nil {
		project.ClientProfile = map[string]any{}
	}
	if project.Journeys == nil {
		project.Journeys = []json.RawMessage{}
	}
	return project, nil
}

func (a *RemoteAdapter) decodeTags(projectID, collection string, raw []json.RawMessage) []models.Tag {
	tags := make([]models.Tag, 0, len(raw))
	for i, r := range raw {
		var tag models.Tag
		if err := json.Unmarshal(r, &tag); err != nil || tag.ID == "" || tag.Name == "" {
			a.logger.Warn().
				Str("projectId", projectID).
				Str("collection", collection).
				Int("index", i).
				Msg("dropping malformed stored tag")
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// loadProject reads and decodes one row
func (a *RemoteAdapter) loadProject(ctx context.Context, id string) (*models.Project, error) {
	var row models.ProjectDocument
	if err := a.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError(fmt.Sprintf("project %s not found", id))
		}
		return nil, errs.NewDatabaseError("load", "project", err)
	}
	return a.decodeDocument(&row)
}

// saveProject encodes and writes the full document back to its row
func (a *RemoteAdapter) saveProject(ctx context.Context, project *models.Project) error {
	row, err := encodeDocument(project)
	if err != nil {
		return err
	}
	row.UpdatedAt = time.Now()
	err = a.db.WithContext(ctx).Model(&models.ProjectDocument{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":       row.Name,
			"status":     row.Status,
			"data":       row.Data,
			"updated_at": row.UpdatedAt,
		}).Error
	if err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	return nil
}

// GetAllProjects returns the projects the caller owns or holds a permission
// row on
func (a *RemoteAdapter) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	userID, err := a.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	granted := a.db.Model(&models.ProjectPermission{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var rows []models.ProjectDocument
	err = a.db.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)", userID, granted).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}

	projects := make([]*models.Project, 0, len(rows))
	for i := range rows {
		project, err := a.decodeDocument(&rows[i])
		if err != nil {
			// one corrupt row must not hide the rest of the list
			a.logger.Error().Err(err).Str("projectId", rows[i].ID).Msg("skipping undecodable project row")
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// GetProject returns one project by ID
func (a *RemoteAdapter) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if _, err := a.currentUser(ctx); err != nil {
		return nil, err
	}
	return a.loadProject(ctx, id)
}

// CreateProject inserts the project row and an owner permission row for the
// caller
func (a *RemoteAdapter) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	userID, err := a.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := validation.Now()
	project.OwnerID = userID
	project.CreatedAt = now
	project.UpdatedAt = now

	row, err := encodeDocument(project)
	if err != nil {
		return nil, err
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return errs.NewDatabaseError("create", "project", err)
		}
		perm := models.ProjectPermission{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.RoleOwner,
		}
		if err := tx.Create(&perm).Error; err != nil {
			return errs.NewDatabaseError("create", "project permission", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject merges partial updates into the stored document. Editor role
// or above required
func (a *RemoteAdapter) UpdateProject(ctx context.Context, id string, updates map[string]any) (*models.Project, error) {
	if _, err := a.requireRole(ctx, id, models.RoleEditor); err != nil {
		return nil, err
	}

	current, err := a.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := mergeProject(current, updates)
	if err != nil {
		return nil, err
	}
	if err := a.saveProject(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// DeleteProject removes the row and its permission rows. Owner role required
func (a *RemoteAdapter) DeleteProject(ctx context.Context, id string) error {
	if _, err := a.requireRole(ctx, id, models.RoleOwner); err != nil {
		return err
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProjectPermission{}, "project_id = ?", id).Error; err != nil {
			return errs.NewDatabaseError("delete", "project permissions", err)
		}
		result := tx.Delete(&models.ProjectDocument{}, "id = ?", id)
		if result.Error != nil {
			return errs.NewDatabaseError("delete", "project", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFoundError(fmt.Sprintf("project %s not found", id))
		}
		return nil
	})
}

// withProject loads the document, applies fn, and stores the result. All
// nested mutations require editor role or above
func (a *RemoteAdapter) withProject(ctx context.Context, projectID string, fn func(project *models.Project) error) (*models.Project, error) {
	if _, err := a.requireRole(ctx, projectID, models.RoleEditor); err != nil {
		return nil, err
	}

	project, err := a.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := fn(project); err != nil {
		return nil, err
	}
	if err := a.saveProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// AddCustomObject appends an object to the project's data model
func (a *RemoteAdapter) AddCustomObject(ctx context.Context, projectID string, object models.CustomObject) (*models.CustomObject, error) {
	var added *models.CustomObject
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		added = addObject(project, object)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateCustomObject merges partial updates into a stored object
func (a *RemoteAdapter) UpdateCustomObject(ctx context.Context, projectID, objectID string, updates map[string]any) (*models.CustomObject, error) {
	var updated *models.CustomObject
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		out, err := updateObject(project, objectID, updates)
		if err != nil {
			return err
		}
		updated = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCustomObject removes an object and cascades association removal
func (a *RemoteAdapter) DeleteCustomObject(ctx context.Context, projectID, objectID string) error {
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		return deleteObject(project, objectID)
	})
	return err
}

// DuplicateCustomObject deep-copies an object under fresh identifiers
func (a *RemoteAdapter) DuplicateCustomObject(ctx context.Context, projectID, objectID string) (*models.CustomObject, error) {
	var copied *models.CustomObject
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		out, err := duplicateObject(project, objectID)
		if err != nil {
			return err
		}
		copied = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// AddField appends a field to an object
func (a *RemoteAdapter) AddField(ctx context.Context, projectID, objectID string, field models.Field) (*models.Field, error) {
	var added *models.Field
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		out, err := addField(project, objectID, field)
		if err != nil {
			return err
		}
		added = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateField replaces a stored field with the supplied record
func (a *RemoteAdapter) UpdateField(ctx context.Context, projectID, objectID, fieldID string, field models.Field) (*models.Field, error) {
	var updated *models.Field
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		out, err := updateField(project, objectID, fieldID, field)
		if err != nil {
			return err
		}
		updated = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteField removes a field from its owning object
func (a *RemoteAdapter) DeleteField(ctx context.Context, projectID, objectID, fieldID string) error {
	_, err := a.withProject(ctx, projectID, func(project *models.Project) error {
		return deleteField(project, objectID, fieldID)
	})
	return err
}

// GrantPermission upserts a user's role on a project. Owner role required
func (a *RemoteAdapter) GrantPermission(ctx context.Context, projectID, userID string, role models.PermissionRole) error {
	if !role.IsValid() {
		return errs.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}
	if _, err := a.requireRole(ctx, projectID, models.RoleOwner); err != nil {
		return err
	}

	var perm models.ProjectPermission
	err := a.db.WithContext(ctx).First(&perm, "project_id = ? AND user_id = ?", projectID, userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		perm = models.ProjectPermission{ProjectID: projectID, UserID: userID, Role: role}
		if err := a.db.WithContext(ctx).Create(&perm).Error; err != nil {
			return errs.NewDatabaseError("create", "project permission", err)
		}
		return nil
	case err != nil:
		return errs.NewDatabaseError("load", "project permission", err)
	default:
		perm.Role = role
		if err := a.db.WithContext(ctx).Save(&perm).Error; err != nil {
			return errs.NewDatabaseError("update", "project permission", err)
		}
		return nil
	}
}
