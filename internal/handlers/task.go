package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/types"
	"github.com/yukikurage/board-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks of a project, newest first.
// Supports ?status, ?assignee, ?q, ?feature_id, ?page and ?limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Query:    c.Query("q"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if status, ok := c.GetQuery("status"); ok {
		input.Status = &status
	}
	if assignee, ok := c.GetQuery("assignee"); ok {
		input.Assignee = &assignee
	}
	if raw, ok := c.GetQuery("feature_id"); ok {
		featureID, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid feature_id")
			return
		}
		input.FeatureID = &featureID
	}

	tasks, total, err := h.taskService.ListTasks(scope, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId", "Task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(scope, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title              string     `json:"title" binding:"required"`
		Description        *string    `json:"description"`
		AcceptanceCriteria *string    `json:"acceptance_criteria"`
		Assignee           *string    `json:"assignee"`
		Priority           *string    `json:"priority"`
		Architecture       *string    `json:"architecture"`
		Status             string     `json:"status"`
		StoryID            string     `json:"story_id"`
		DueDate            *time.Time `json:"due_date"`
		FeatureID          *uuid.UUID `json:"feature_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	task, err := h.taskService.CreateTask(scope, services.CreateTaskInput{
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Assignee:           req.Assignee,
		Priority:           req.Priority,
		Architecture:       req.Architecture,
		Status:             req.Status,
		StoryID:            req.StoryID,
		DueDate:            req.DueDate,
		FeatureID:          req.FeatureID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Omitted fields are left alone and
// explicit nulls clear nullable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId", "Task")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title              types.Optional[string]    `json:"title"`
		Description        types.Optional[string]    `json:"description"`
		AcceptanceCriteria types.Optional[string]    `json:"acceptance_criteria"`
		Assignee           types.Optional[string]    `json:"assignee"`
		Priority           types.Optional[string]    `json:"priority"`
		Architecture       types.Optional[string]    `json:"architecture"`
		Status             types.Optional[string]    `json:"status"`
		DueDate            types.Optional[time.Time] `json:"due_date"`
		FeatureID          types.Optional[uuid.UUID] `json:"feature_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(scope, taskID, services.UpdateTaskInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus moves a task to another column
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId", "Task")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	task, err := h.taskService.SetStatus(scope, taskID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask hard deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	scope, ok := projectScope(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId", "Task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(scope, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
