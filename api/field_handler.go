package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/repository"
)

type fieldHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *repository.ProjectRepository
}

func newFieldHandler(repo *repository.ProjectRepository) fieldHandler {
	logger := log.With().Str("handlerName", "fieldHandler").Logger()

	return fieldHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// addField appends a field to a custom object
// @Summary Add field
// @Description Validates a field against its siblings and appends it to the object
// @Tags Fields
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Param field body models.Field true "Field data"
// @Success 201 {object} models.Field "Created field"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid field data"
// @Router /project/{projectID}/object/{objectID}/field [post]
func (h fieldHandler) addField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, objectID, err := parseObjectPath(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read request body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var field models.Field
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&field); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode field request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		created, err := h.repo.AddField(r.Context(), projectID, objectID, field)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateField merges partial updates onto a stored field and re-validates
// @Summary Update field
// @Description Merges updates onto the stored field so the result validates as a complete entity
// @Tags Fields
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Param fieldID path string true "Field ID" format(uuid)
// @Param updates body object true "Partial field updates"
// @Success 200 {object} models.Field "Updated field"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid field data"
// @Failure 404 {object} ErrorResponse "Not Found - Field not found"
// @Router /project/{projectID}/object/{objectID}/field/{fieldID} [put]
func (h fieldHandler) updateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, objectID, err := parseObjectPath(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fieldID := chi.URLParam(r, "fieldID")
		if fieldID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing fieldID"))
			return
		}

		updates, err := decodeUpdates(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.repo.UpdateField(r.Context(), projectID, objectID, fieldID, updates)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteField removes a field from a custom object
// @Summary Delete field
// @Description Removes a field from its object
// @Tags Fields
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Param fieldID path string true "Field ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Field not found"
// @Router /project/{projectID}/object/{objectID}/field/{fieldID} [delete]
func (h fieldHandler) deleteField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, objectID, err := parseObjectPath(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		fieldID := chi.URLParam(r, "fieldID")
		if fieldID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing fieldID"))
			return
		}

		if err := h.repo.DeleteField(r.Context(), projectID, objectID, fieldID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "field deleted successfully",
		})
	}
}

// parseObjectPath extracts the projectID and objectID path parameters
func parseObjectPath(r *http.Request) (string, string, error) {
	projectID, err := parseProjectID(r)
	if err != nil {
		return "", "", err
	}
	objectID := chi.URLParam(r, "objectID")
	if objectID == "" {
		return "", "", errs.NewBadRequestError("missing objectID")
	}
	return projectID, objectID, nil
}
