package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/constants"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/services"
)

// RequireProjectAccess loads the project named by the :projectId parameter
// and checks it belongs to the current user
func RequireProjectAccess(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Malformed and foreign IDs look the same as missing projects
		projectID, err := uuid.Parse(c.Param("projectId"))
		if err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		project, err := projectService.GetProject(userID, projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "Failed to load project")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Next()
	}
}

// GetProject retrieves the project stored by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}

// GetScope returns the owner and project pair used by the project services
func GetScope(c *gin.Context) (services.ProjectScope, bool) {
	project, ok := GetProject(c)
	if !ok {
		return services.ProjectScope{}, false
	}
	userID, ok := GetUserID(c)
	if !ok {
		return services.ProjectScope{}, false
	}
	return services.ProjectScope{OwnerID: userID, ProjectID: project.ID}, true
}
