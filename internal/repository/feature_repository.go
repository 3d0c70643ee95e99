package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// GormFeatureRepository is a GORM implementation of FeatureRepository
type GormFeatureRepository struct {
	db *gorm.DB
}

// NewFeatureRepository creates a new FeatureRepository
func NewFeatureRepository(db *gorm.DB) FeatureRepository {
	return &GormFeatureRepository{db: db}
}

func (r *GormFeatureRepository) Create(feature *models.Feature) error {
	return r.db.Create(feature).Error
}

func (r *GormFeatureRepository) FindInProject(projectID, id uuid.UUID) (*models.Feature, error) {
	var feature models.Feature
	if err := r.db.Where("project_id = ? AND id = ?", projectID, id).First(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *GormFeatureRepository) List(projectID uuid.UUID) ([]models.Feature, error) {
	var features []models.Feature
	if err := r.db.Scopes(database.InProject(projectID)).
		Order("created_at DESC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

func (r *GormFeatureRepository) Update(feature *models.Feature) error {
	return r.db.Save(feature).Error
}

// Delete removes the feature; its tasks stay on the board without a feature
func (r *GormFeatureRepository) Delete(projectID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND feature_id = ?", projectID, id).
			Update("feature_id", nil).Error; err != nil {
			return err
		}
		return deleteScoped(tx, &models.Feature{}, projectID, id)
	})
}
