package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/types"
	"github.com/yukikurage/board-api/internal/utils"
)

type FeatureHandler struct {
	featureService *services.FeatureService
	taskService    *services.TaskService
}

func NewFeatureHandler(featureService *services.FeatureService, taskService *services.TaskService) *FeatureHandler {
	return &FeatureHandler{
		featureService: featureService,
		taskService:    taskService,
	}
}

func (h *FeatureHandler) CreateFeature(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	type CreateFeatureRequest struct {
		Name               string  `json:"name" binding:"required"`
		Details            *string `json:"details"`
		UserStory          *string `json:"user_story"`
		CoreRequirements   *string `json:"core_requirements"`
		AcceptanceCriteria *string `json:"acceptance_criteria"`
		TechnicalNotes     *string `json:"technical_notes"`
	}

	var req CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	feature, err := h.featureService.CreateFeature(scope, services.CreateFeatureInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFeatureDTO(*feature))
}

func (h *FeatureHandler) ListFeatures(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	features, err := h.featureService.ListFeatures(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.FeatureDTO, len(features))
	for i, f := range features {
		items[i] = dto.ToFeatureDTO(f)
	}
	c.JSON(http.StatusOK, gin.H{"features": items})
}

func (h *FeatureHandler) GetFeature(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	featureID, ok := pathID(c, "featureId", "Feature")
	if !ok {
		return
	}

	feature, err := h.featureService.GetFeature(scope, featureID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeatureDTO(*feature))
}

func (h *FeatureHandler) UpdateFeature(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	featureID, ok := pathID(c, "featureId", "Feature")
	if !ok {
		return
	}

	type UpdateFeatureRequest struct {
		Name               types.Optional[string] `json:"name"`
		Details            types.Optional[string] `json:"details"`
		UserStory          types.Optional[string] `json:"user_story"`
		CoreRequirements   types.Optional[string] `json:"core_requirements"`
		AcceptanceCriteria types.Optional[string] `json:"acceptance_criteria"`
		TechnicalNotes     types.Optional[string] `json:"technical_notes"`
	}

	var req UpdateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	feature, err := h.featureService.UpdateFeature(scope, featureID, services.UpdateFeatureInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeatureDTO(*feature))
}

// DeleteFeature removes a feature; its tasks stay on the board unlinked
func (h *FeatureHandler) DeleteFeature(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	featureID, ok := pathID(c, "featureId", "Feature")
	if !ok {
		return
	}

	if err := h.featureService.DeleteFeature(scope, featureID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFeatureTasks returns the stories linked to a feature
func (h *FeatureHandler) ListFeatureTasks(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	featureID, ok := pathID(c, "featureId", "Feature")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListFeatureTasks(scope, featureID, params.Page, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// SuggestTasks drafts tasks for a feature with the AI service. Nothing is saved.
func (h *FeatureHandler) SuggestTasks(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	featureID, ok := pathID(c, "featureId", "Feature")
	if !ok {
		return
	}

	drafts, err := h.featureService.SuggestTasks(c.Request.Context(), scope, featureID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.DraftTaskDTO, len(drafts))
	for i, d := range drafts {
		items[i] = dto.DraftTaskDTO{
			Title:              d.Title,
			Description:        d.Description,
			AcceptanceCriteria: d.AcceptanceCriteria,
			Priority:           d.Priority,
			Architecture:       d.Architecture,
		}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}
