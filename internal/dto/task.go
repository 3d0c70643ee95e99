package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenDTO is the body returned by a successful login
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uuid.UUID                `json:"id"`
	ProjectID          uuid.UUID                `json:"project_id"`
	FeatureID          *uuid.UUID               `json:"feature_id"`
	StoryID            string                   `json:"story_id"`
	Title              string                   `json:"title"`
	Description        *string                  `json:"description"`
	AcceptanceCriteria *string                  `json:"acceptance_criteria"`
	Assignee           *string                  `json:"assignee"`
	Priority           *models.TaskPriority     `json:"priority"`
	Architecture       *models.TaskArchitecture `json:"architecture"`
	Status             string                   `json:"status"`
	DueDate            *time.Time               `json:"due_date"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
	CompletedAt        *time.Time               `json:"completed_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// DraftTaskDTO is an AI generated task suggestion. It is never persisted.
type DraftTaskDTO struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	Priority           *string `json:"priority"`
	Architecture       *string `json:"architecture"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                 task.ID,
		ProjectID:          task.ProjectID,
		FeatureID:          task.FeatureID,
		StoryID:            task.StoryID,
		Title:              task.Title,
		Description:        task.Description,
		AcceptanceCriteria: task.AcceptanceCriteria,
		Assignee:           task.Assignee,
		Priority:           task.Priority,
		Architecture:       task.Architecture,
		Status:             task.Status,
		DueDate:            task.DueDate,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
		CompletedAt:        task.CompletedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
