package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/story"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db    *gorm.DB
	alloc *story.Allocator
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB, alloc *story.Allocator) ProjectRepository {
	return &GormProjectRepository{db: db, alloc: alloc}
}

// CreateWithDefaults creates the project, seeds its columns and initializes its story sequence atomically.
func (r *GormProjectRepository) CreateWithDefaults(project *models.Project, columns []models.Column) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("create project: %w", translate(err))
		}

		if _, err := seedColumns(tx, project.ID, columns); err != nil {
			return err
		}

		return r.alloc.Init(tx, project.ID)
	})
}

// FindOwned finds a project by ID that belongs to ownerID
func (r *GormProjectRepository) FindOwned(ownerID, id uuid.UUID, withColumns bool) (*models.Project, error) {
	var project models.Project
	query := r.db.Scopes(database.OwnedBy(ownerID)).Where("id = ?", id)
	if withColumns {
		query = query.Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("pos ASC")
		})
	}
	if err := query.First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner lists projects newest first
func (r *GormProjectRepository) ListByOwner(ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Scopes(database.OwnedBy(ownerID)).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uuid.UUID) ([]string, error) {
	var storedNames []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).
			Where("project_id = ?", id).
			Pluck("stored_name", &storedNames).Error; err != nil {
			return err
		}

		// Children first; foreign key cascades are not relied on
		owned := []interface{}{
			&models.Document{},
			&models.HubSection{},
			&models.Task{},
			&models.Feature{},
			&models.Column{},
			&models.StorySequence{},
		}
		for _, model := range owned {
			if err := tx.Where("project_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return storedNames, nil
}
