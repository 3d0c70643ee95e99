package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/constants"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/services"
)

var notFoundErrors = []error{
	services.ErrProjectNotFound,
	services.ErrTaskNotFound,
	services.ErrFeatureNotFound,
	services.ErrSectionNotFound,
	services.ErrDocumentNotFound,
	services.ErrUserNotFound,
}

var conflictErrors = []error{
	services.ErrColumnExists,
	services.ErrStoryIDTaken,
	services.ErrEmailTaken,
}

var invalidArgumentErrors = []error{
	board.ErrInvalidStatus,
	board.ErrInvalidColumnTitle,
	board.ErrInvalidPriority,
	board.ErrInvalidArchitecture,
	services.ErrTitleRequired,
	services.ErrTitleEmpty,
	services.ErrStoryIDLength,
	services.ErrProjectNameRequired,
	services.ErrFeatureNameRequired,
	services.ErrSectionTypeRequired,
	services.ErrInvalidSectionContent,
	services.ErrFileTooLarge,
	services.ErrEmptyFile,
	services.ErrFileNameRequired,
	services.ErrInvalidEmail,
	services.ErrInvalidResetToken,
}

// respondServiceError maps a service error onto the API error taxonomy
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case isAny(err, notFoundErrors):
		apierrors.NotFound(c, err.Error())
	case isAny(err, conflictErrors):
		apierrors.Conflict(c, err.Error())
	case isAny(err, invalidArgumentErrors):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadGateway(c, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// projectScope reads the scope set by RequireProjectAccess. It writes the
// error response itself when the scope is missing.
func projectScope(c *gin.Context) (services.ProjectScope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return services.ProjectScope{}, false
	}
	return scope, true
}

// pathID parses a UUID path parameter. Malformed IDs are reported as missing.
func pathID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.NotFound(c, resource+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// invalidBody reports a request body that failed to bind
func invalidBody(c *gin.Context, err error) {
	apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
}
