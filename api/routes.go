package api

import (
	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes sets up all routes with authentication
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())
		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		// Object Handler endpoints
		r.Post("/project/{projectID}/object", handlers.objectHandler.addObject())
		r.Put("/project/{projectID}/object/{objectID}", handlers.objectHandler.updateObject())
		r.Delete("/project/{projectID}/object/{objectID}", handlers.objectHandler.deleteObject())
		r.Post("/project/{projectID}/object/{objectID}/duplicate", handlers.objectHandler.duplicateObject())

		// Field Handler endpoints
		r.Post("/project/{projectID}/object/{objectID}/field", handlers.fieldHandler.addField())
		r.Put("/project/{projectID}/object/{objectID}/field/{fieldID}", handlers.fieldHandler.updateField())
		r.Delete("/project/{projectID}/object/{objectID}/field/{fieldID}", handlers.fieldHandler.deleteField())

		// Tag Handler endpoints
		r.Post("/project/{projectID}/tag/validate", handlers.tagHandler.validateTag())
	})
}
