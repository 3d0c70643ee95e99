package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/story"
	"github.com/yukikurage/board-api/internal/utils"
	"gorm.io/gorm"
)

// maxStoryAttempts bounds how many allocated codes may be skipped because a
// client already used them as external story IDs.
const maxStoryAttempts = 8

var errStoryExhausted = errors.New("repository: no free story code")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db    *gorm.DB
	alloc *story.Allocator
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB, alloc *story.Allocator) TaskRepository {
	return &GormTaskRepository{db: db, alloc: alloc}
}

// Create creates a new task, allocating its story inside the same transaction
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if task.StoryID != "" {
			taken, err := storyTaken(tx, task.ProjectID, task.StoryID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicate
			}
		} else {
			s, err := r.nextFreeStory(tx, task.ProjectID)
			if err != nil {
				return err
			}
			num := s.Num
			task.StoryID = s.Code
			task.StoryNum = &num
		}

		return translate(tx.Create(task).Error)
	})
}

func (r *GormTaskRepository) nextFreeStory(tx *gorm.DB, projectID uuid.UUID) (story.Story, error) {
	for i := 0; i < maxStoryAttempts; i++ {
		s, err := r.alloc.Next(tx, projectID)
		if err != nil {
			return story.Story{}, err
		}
		taken, err := storyTaken(tx, projectID, s.Code)
		if err != nil {
			return story.Story{}, err
		}
		if !taken {
			return s, nil
		}
	}
	return story.Story{}, errStoryExhausted
}

func storyTaken(tx *gorm.DB, projectID uuid.UUID, storyID string) (bool, error) {
	var count int64
	if err := tx.Model(&models.Task{}).
		Where("project_id = ? AND story_id = ?", projectID, storyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindInProject finds a task by ID within a project
func (r *GormTaskRepository) FindInProject(projectID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("project_id = ? AND id = ?", projectID, id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.InProject(filter.ProjectID))

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Assignee != nil {
		query = query.Where("tasks.assignee = ?", *filter.Assignee)
	}
	if filter.FeatureID != nil {
		query = query.Where("tasks.feature_id = ?", *filter.FeatureID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(tasks.title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(q))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").Order("tasks.id")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return translate(r.db.Save(task).Error)
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(projectID, id uuid.UUID) error {
	return deleteScoped(r.db, &models.Task{}, projectID, id)
}
