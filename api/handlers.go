package api

import (
	"github.com/blueprintcu/modeler-backend/repository"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(repo *repository.ProjectRepository) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(repo),
		objectHandler:  newObjectHandler(repo),
		fieldHandler:   newFieldHandler(repo),
		tagHandler:     newTagHandler(repo),
	}
}
