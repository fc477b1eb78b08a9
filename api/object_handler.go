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

type objectHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *repository.ProjectRepository
}

func newObjectHandler(repo *repository.ProjectRepository) objectHandler {
	logger := log.With().Str("handlerName", "objectHandler").Logger()

	return objectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// addObject adds a custom object to a project's data model
// @Summary Add custom object
// @Description Validates and appends a custom object to the project's data model
// @Tags Objects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param object body models.CustomObject true "Object data"
// @Success 201 {object} models.CustomObject "Created object"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid object data"
// @Failure 409 {object} ErrorResponse "Conflict - Duplicate object name"
// @Router /project/{projectID}/object [post]
func (h objectHandler) addObject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
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

		var object models.CustomObject
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&object); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode object request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		created, err := h.repo.AddCustomObject(r.Context(), projectID, object)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateObject merges partial updates into an existing custom object
// @Summary Update custom object
// @Description Applies a partial update to a custom object
// @Tags Objects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Param updates body object true "Partial object updates"
// @Success 200 {object} models.CustomObject "Updated object"
// @Failure 404 {object} ErrorResponse "Not Found - Project or object not found"
// @Router /project/{projectID}/object/{objectID} [put]
func (h objectHandler) updateObject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		objectID := chi.URLParam(r, "objectID")
		if objectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing objectID"))
			return
		}

		updates, err := decodeUpdates(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.repo.UpdateCustomObject(r.Context(), projectID, objectID, updates)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteObject deletes a custom object and cascades association removal
// @Summary Delete custom object
// @Description Deletes a custom object; associations referencing it on either side are removed
// @Tags Objects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project or object not found"
// @Router /project/{projectID}/object/{objectID} [delete]
func (h objectHandler) deleteObject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		objectID := chi.URLParam(r, "objectID")
		if objectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing objectID"))
			return
		}

		if err := h.repo.DeleteCustomObject(r.Context(), projectID, objectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "object deleted successfully",
		})
	}
}

// duplicateObject copies an object under a fresh name
// @Summary Duplicate custom object
// @Description Deep-copies an object with fresh identifiers and a non-colliding name
// @Tags Objects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param objectID path string true "Object ID" format(uuid)
// @Success 201 {object} models.CustomObject "Duplicated object"
// @Failure 404 {object} ErrorResponse "Not Found - Project or object not found"
// @Router /project/{projectID}/object/{objectID}/duplicate [post]
func (h objectHandler) duplicateObject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		objectID := chi.URLParam(r, "objectID")
		if objectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing objectID"))
			return
		}

		copied, err := h.repo.DuplicateCustomObject(r.Context(), projectID, objectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, copied)
	}
}
