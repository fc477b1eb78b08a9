package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/repository"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *repository.ProjectRepository
}

func newProjectHandler(repo *repository.ProjectRepository) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// ProjectCollection represents multiple projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total,omitempty"`
}

// getAllProjects retrieves every project readable by the caller
// @Summary Get all projects
// @Description Retrieves all projects the authenticated user can read
// @Tags Projects
// @Accept json
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.repo.GetAllProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		}

		h.responder.WriteJSON(w, response)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves a single project by ID
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.repo.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project; an included data model is validated first
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var project models.Project
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&project); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		created, err := h.repo.CreateProject(r.Context(), &project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateProject merges partial updates into an existing project
// @Summary Update project
// @Description Applies a partial update; an included data model is validated first
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param updates body object true "Partial project updates"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error updating project"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updates, err := decodeUpdates(r)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project update body")
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.repo.UpdateProject(r.Context(), projectID, updates)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Deletes a project; only its owner may do this
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.repo.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// parseProjectID extracts and shape-checks the projectID path parameter
func parseProjectID(r *http.Request) (string, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return "", errs.NewBadRequestError("missing projectID")
	}
	if _, err := uuid.Parse(projectIDStr); err != nil {
		return "", errs.NewBadRequestError("invalid projectID")
	}
	return projectIDStr, nil
}

// decodeUpdates reads a partial-update request body into a map
func decodeUpdates(r *http.Request) (map[string]any, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errs.NewBadRequestError("failed to read request body")
	}

	var updates map[string]any
	if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&updates); err != nil {
		return nil, errs.NewBadRequestError("malformed request body")
	}
	return updates, nil
}
