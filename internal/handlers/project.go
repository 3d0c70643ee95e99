package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/services"
)

// ProjectHandler handles project and column endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	columnService  *services.ColumnService
}

func NewProjectHandler(projectService *services.ProjectService, columnService *services.ColumnService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		columnService:  columnService,
	}
}

type projectRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProject creates a project with the default board columns
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	project, err := h.projectService.CreateProject(userID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects of the current user, newest first
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = dto.ToProjectDTO(p)
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

// GetProject returns a project. ?include=columns adds its board columns.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	if c.Query("include") == "columns" {
		withColumns, err := h.projectService.GetProjectWithColumns(project.OwnerID, project.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		project = *withColumns
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// UpdateProject renames a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	project, err := h.projectService.RenameProject(scope.OwnerID, scope.ProjectID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything it owns
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), scope.OwnerID, scope.ProjectID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListColumns returns the board columns in order
func (h *ProjectHandler) ListColumns(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	columns, err := h.columnService.ListColumns(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": dto.ToColumnDTOs(columns)})
}

// CreateColumn appends a column whose key is derived from the title
func (h *ProjectHandler) CreateColumn(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	type CreateColumnRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	column, err := h.columnService.CreateColumn(scope, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToColumnDTO(*column))
}

// SeedColumns restores the default columns of a project that has none
func (h *ProjectHandler) SeedColumns(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	added, err := h.columnService.SeedDefaults(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	columns, err := h.columnService.ListColumns(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"columns": dto.ToColumnDTOs(columns),
	})
}
