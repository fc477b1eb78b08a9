package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blueprintcu/modeler-backend/errs"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/repository"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *repository.ProjectRepository
}

func newTagHandler(repo *repository.ProjectRepository) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// TagValidationResponse reports a tag dry-run validation outcome
type TagValidationResponse struct {
	Valid  bool             `json:"valid"`
	Errors []map[string]any `json:"errors,omitempty"`
	Band   string           `json:"complexityBand"`
	Score  int              `json:"complexityScore"`
}

// validateTag dry-runs tag validation against the stored project
// @Summary Validate tag
// @Description Validates a tag against the project's existing tags and objects without persisting it
// @Tags Tags
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param tag body models.Tag true "Tag data"
// @Success 200 {object} TagValidationResponse "Validation outcome"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed tag"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID}/tag/validate [post]
func (h tagHandler) validateTag() http.HandlerFunc {
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

		var tag models.Tag
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&tag); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		result, err := h.repo.ValidateTag(r.Context(), projectID, tag)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		score, band := h.repo.Validator().ComplexityScore(tag)
		response := TagValidationResponse{
			Valid: result.Valid,
			Band:  string(band),
			Score: score,
		}
		for _, fe := range result.Errors {
			response.Errors = append(response.Errors, map[string]any{
				"field":   fe.Field,
				"message": fe.Message,
			})
		}

		h.responder.WriteJSON(w, response)
	}
}
