package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/services"
)

// Services bundles what the HTTP layer needs
type Services struct {
	Auth     *services.AuthService
	Project  *services.ProjectService
	Column   *services.ColumnService
	Task     *services.TaskService
	Feature  *services.FeatureService
	Hub      *services.HubService
	Document *services.DocumentService
}

// RegisterRoutes mounts the API under r
func RegisterRoutes(r gin.IRouter, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Project, svc.Column)
	taskHandler := NewTaskHandler(svc.Task)
	featureHandler := NewFeatureHandler(svc.Feature, svc.Task)
	hubHandler := NewHubHandler(svc.Hub)
	documentHandler := NewDocumentHandler(svc.Document)

	requireAuth := middleware.RequireAuth(svc.Auth)

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
	}

	// Everything below is scoped to a project owned by the caller
	project := projects.Group("/:projectId")
	project.Use(middleware.RequireProjectAccess(svc.Project))
	{
		project.GET("", projectHandler.GetProject)
		project.PATCH("", projectHandler.UpdateProject)
		project.DELETE("", projectHandler.DeleteProject)

		project.GET("/columns", projectHandler.ListColumns)
		project.POST("/columns", projectHandler.CreateColumn)
		project.POST("/columns/seed", projectHandler.SeedColumns)

		project.GET("/tasks", taskHandler.ListTasks)
		project.POST("/tasks", taskHandler.CreateTask)
		project.GET("/tasks/:taskId", taskHandler.GetTask)
		project.PATCH("/tasks/:taskId", taskHandler.UpdateTask)
		project.PATCH("/tasks/:taskId/status", taskHandler.UpdateTaskStatus)
		project.DELETE("/tasks/:taskId", taskHandler.DeleteTask)

		project.GET("/features", featureHandler.ListFeatures)
		project.POST("/features", featureHandler.CreateFeature)
		project.GET("/features/:featureId", featureHandler.GetFeature)
		project.PATCH("/features/:featureId", featureHandler.UpdateFeature)
		project.DELETE("/features/:featureId", featureHandler.DeleteFeature)
		project.GET("/features/:featureId/tasks", featureHandler.ListFeatureTasks)
		project.POST("/features/:featureId/suggest-tasks", featureHandler.SuggestTasks)

		project.GET("/hub", hubHandler.ListSections)
		project.GET("/hub/:sectionType", hubHandler.GetSection)
		project.PUT("/hub/:sectionType", hubHandler.UpsertSection)
		project.DELETE("/hub/:sectionType", hubHandler.DeleteSection)

		project.GET("/documents", documentHandler.ListDocuments)
		project.POST("/documents", documentHandler.UploadDocument)
		project.GET("/documents/:documentId", documentHandler.DownloadDocument)
		project.DELETE("/documents/:documentId", documentHandler.DeleteDocument)
	}
}
