package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/metrics"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/types"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleEmpty    = errors.New("title cannot be empty")
	ErrStoryIDTaken  = errors.New("story id is already used in this project")
	ErrStoryIDLength = errors.New("story id must be at most 32 characters")
)

const maxStoryIDLength = 32

// TaskService handles task business logic
type TaskService struct {
	projectRepo repository.ProjectRepository
	columnRepo  repository.ColumnRepository
	taskRepo    repository.TaskRepository
	featureRepo repository.FeatureRepository
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	projectRepo repository.ProjectRepository,
	columnRepo repository.ColumnRepository,
	taskRepo repository.TaskRepository,
	featureRepo repository.FeatureRepository,
) *TaskService {
	return &TaskService{
		projectRepo: projectRepo,
		columnRepo:  columnRepo,
		taskRepo:    taskRepo,
		featureRepo: featureRepo,
		now:         time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title              string
	Description        *string
	AcceptanceCriteria *string
	Assignee           *string
	Priority           *string
	Architecture       *string
	// Status defaults to the first seeded column when empty
	Status string
	// StoryID is allocated when empty
	StoryID   string
	DueDate   *time.Time
	FeatureID *uuid.UUID
}

// UpdateTaskInput represents a partial update; unset fields are left alone
type UpdateTaskInput struct {
	Title              types.Optional[string]
	Description        types.Optional[string]
	AcceptanceCriteria types.Optional[string]
	Assignee           types.Optional[string]
	Priority           types.Optional[string]
	Architecture       types.Optional[string]
	Status             types.Optional[string]
	DueDate            types.Optional[time.Time]
	FeatureID          types.Optional[uuid.UUID]
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status    *string
	Assignee  *string
	Query     string
	FeatureID *uuid.UUID
	Page      int
	PageSize  int
}

// CreateTask creates a task on the project board
func (s *TaskService) CreateTask(scope ProjectScope, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	keys, err := s.columnKeys(scope.ProjectID)
	if err != nil {
		return nil, err
	}
	status, err := initialStatus(input.Status, keys)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:          scope.ProjectID,
		OwnerID:            scope.OwnerID,
		Title:              title,
		Description:        input.Description,
		AcceptanceCriteria: input.AcceptanceCriteria,
		Assignee:           trimmedOrNil(input.Assignee),
		DueDate:            input.DueDate,
	}

	if input.Priority != nil {
		p, err := board.ParsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = &p
	}
	if input.Architecture != nil {
		a, err := board.ParseArchitecture(*input.Architecture)
		if err != nil {
			return nil, err
		}
		task.Architecture = &a
	}
	if input.FeatureID != nil {
		if err := s.ensureFeature(scope.ProjectID, *input.FeatureID); err != nil {
			return nil, err
		}
		task.FeatureID = input.FeatureID
	}

	task.StoryID = strings.TrimSpace(input.StoryID)
	if len(task.StoryID) > maxStoryIDLength {
		return nil, ErrStoryIDLength
	}

	completed := task.MoveTo(status, board.TerminalKey, s.now())

	if err := s.taskRepo.Create(task); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStoryIDTaken
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if completed {
		metrics.TasksCompleted.Inc()
	}

	return task, nil
}

// GetTask returns a task of the project
func (s *TaskService) GetTask(scope ProjectScope, taskID uuid.UUID) (*models.Task, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	return s.findTask(scope.ProjectID, taskID)
}

// ListTasks returns the tasks of a project, newest first
func (s *TaskService) ListTasks(scope ProjectScope, input ListTasksInput) ([]models.Task, int64, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		ProjectID: scope.ProjectID,
		Assignee:  input.Assignee,
		FeatureID: input.FeatureID,
		Query:     input.Query,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	if input.Status != nil {
		keys, err := s.columnKeys(scope.ProjectID)
		if err != nil {
			return nil, 0, err
		}
		status, err := board.ResolveStatus(*input.Status, keys)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListFeatureTasks returns the tasks linked to a feature
func (s *TaskService) ListFeatureTasks(scope ProjectScope, featureID uuid.UUID, page, pageSize int) ([]models.Task, int64, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, 0, err
	}
	if err := s.ensureFeature(scope.ProjectID, featureID); err != nil {
		return nil, 0, err
	}
	return s.ListTasks(scope, ListTasksInput{FeatureID: &featureID, Page: page, PageSize: pageSize})
}

// UpdateTask applies a partial update. Nothing is written when any field is invalid.
func (s *TaskService) UpdateTask(scope ProjectScope, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	task, err := s.findTask(scope.ProjectID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title.Set {
		title := strings.TrimSpace(input.Title.Value)
		if input.Title.Null || title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description.Set {
		task.Description = input.Description.Ptr()
	}
	if input.AcceptanceCriteria.Set {
		task.AcceptanceCriteria = input.AcceptanceCriteria.Ptr()
	}
	if input.Assignee.Set {
		task.Assignee = trimmedOrNil(input.Assignee.Ptr())
	}
	if input.Priority.Set {
		task.Priority = nil
		if !input.Priority.Null {
			p, err := board.ParsePriority(input.Priority.Value)
			if err != nil {
				return nil, err
			}
			task.Priority = &p
		}
	}
	if input.Architecture.Set {
		task.Architecture = nil
		if !input.Architecture.Null {
			a, err := board.ParseArchitecture(input.Architecture.Value)
			if err != nil {
				return nil, err
			}
			task.Architecture = &a
		}
	}
	if input.DueDate.Set {
		task.DueDate = input.DueDate.Ptr()
	}
	if input.FeatureID.Set {
		task.FeatureID = nil
		if !input.FeatureID.Null {
			if err := s.ensureFeature(scope.ProjectID, input.FeatureID.Value); err != nil {
				return nil, err
			}
			featureID := input.FeatureID.Value
			task.FeatureID = &featureID
		}
	}

	completed := false
	if input.Status.Set {
		if input.Status.Null {
			return nil, board.ErrInvalidStatus
		}
		status, err := s.resolveStatus(scope.ProjectID, input.Status.Value)
		if err != nil {
			return nil, err
		}
		completed = task.MoveTo(status, board.TerminalKey, s.now())
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if completed {
		metrics.TasksCompleted.Inc()
	}

	return task, nil
}

// SetStatus moves a task to another column. Unknown statuses are rejected
// and leave the task untouched.
func (s *TaskService) SetStatus(scope ProjectScope, taskID uuid.UUID, rawStatus string) (*models.Task, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	task, err := s.findTask(scope.ProjectID, taskID)
	if err != nil {
		return nil, err
	}

	status, err := s.resolveStatus(scope.ProjectID, rawStatus)
	if err != nil {
		return nil, err
	}

	completed := task.MoveTo(status, board.TerminalKey, s.now())
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if completed {
		metrics.TasksCompleted.Inc()
	}

	return task, nil
}

// DeleteTask hard deletes a task of the project
func (s *TaskService) DeleteTask(scope ProjectScope, taskID uuid.UUID) error {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(scope.ProjectID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) findTask(projectID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindInProject(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureFeature(projectID, featureID uuid.UUID) error {
	if _, err := s.featureRepo.FindInProject(projectID, featureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeatureNotFound
		}
		return fmt.Errorf("failed to find feature: %w", err)
	}
	return nil
}

func (s *TaskService) columnKeys(projectID uuid.UUID) ([]string, error) {
	keys, err := s.columnRepo.Keys(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	return keys, nil
}

func (s *TaskService) resolveStatus(projectID uuid.UUID, raw string) (string, error) {
	keys, err := s.columnKeys(projectID)
	if err != nil {
		return "", err
	}
	return board.ResolveStatus(raw, keys)
}

// initialStatus resolves the status of a new task; an empty input selects
// the seeded initial column, or the first column if that one is gone.
func initialStatus(raw string, keys []string) (string, error) {
	if strings.TrimSpace(raw) != "" {
		return board.ResolveStatus(raw, keys)
	}
	for _, k := range keys {
		if k == board.InitialKey {
			return k, nil
		}
	}
	if len(keys) > 0 {
		return keys[0], nil
	}
	return "", board.ErrInvalidStatus
}
