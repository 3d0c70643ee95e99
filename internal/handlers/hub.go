package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	"github.com/yukikurage/board-api/internal/services"
)

type HubHandler struct {
	hubService *services.HubService
}

func NewHubHandler(hubService *services.HubService) *HubHandler {
	return &HubHandler{hubService: hubService}
}

func (h *HubHandler) ListSections(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	sections, err := h.hubService.ListSections(scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]dto.HubSectionDTO, len(sections))
	for i, s := range sections {
		items[i] = dto.ToHubSectionDTO(s)
	}
	c.JSON(http.StatusOK, gin.H{"sections": items})
}

func (h *HubHandler) GetSection(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	section, err := h.hubService.GetSection(scope, c.Param("sectionType"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHubSectionDTO(*section))
}

// UpsertSection creates or replaces the section named in the path
func (h *HubHandler) UpsertSection(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	type UpsertSectionRequest struct {
		Content json.RawMessage `json:"content" binding:"required"`
	}

	var req UpsertSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	section, err := h.hubService.UpsertSection(scope, c.Param("sectionType"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHubSectionDTO(*section))
}

func (h *HubHandler) DeleteSection(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	if err := h.hubService.DeleteSection(scope, c.Param("sectionType")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
