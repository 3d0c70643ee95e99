package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHubSectionRepository is a GORM implementation of HubSectionRepository
type GormHubSectionRepository struct {
	db *gorm.DB
}

// NewHubSectionRepository creates a new HubSectionRepository
func NewHubSectionRepository(db *gorm.DB) HubSectionRepository {
	return &GormHubSectionRepository{db: db}
}

// Upsert writes the section with a single INSERT .. ON CONFLICT statement
func (r *GormHubSectionRepository) Upsert(section *models.HubSection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		section.CreatedAt = now
		section.UpdatedAt = now

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "section_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).Create(section).Error; err != nil {
			return err
		}

		// the row may predate this call, so its id and created_at come from the table
		var stored models.HubSection
		if err := tx.Where("project_id = ? AND section_type = ?", section.ProjectID, section.SectionType).
			First(&stored).Error; err != nil {
			return err
		}
		*section = stored
		return nil
	})
}

func (r *GormHubSectionRepository) Find(projectID uuid.UUID, sectionType string) (*models.HubSection, error) {
	var section models.HubSection
	if err := r.db.Where("project_id = ? AND section_type = ?", projectID, sectionType).
		First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *GormHubSectionRepository) List(projectID uuid.UUID) ([]models.HubSection, error) {
	var sections []models.HubSection
	if err := r.db.Scopes(database.InProject(projectID)).
		Order("section_type ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *GormHubSectionRepository) Delete(projectID uuid.UUID, sectionType string) error {
	res := r.db.Where("project_id = ? AND section_type = ?", projectID, sectionType).
		Delete(&models.HubSection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
