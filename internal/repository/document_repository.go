package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Create(doc *models.Document) error {
	return translate(r.db.Create(doc).Error)
}

func (r *GormDocumentRepository) FindInProject(projectID, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.db.Where("project_id = ? AND id = ?", projectID, id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *GormDocumentRepository) List(projectID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.Scopes(database.InProject(projectID)).
		Order("uploaded_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *GormDocumentRepository) Delete(projectID, id uuid.UUID) error {
	return deleteScoped(r.db, &models.Document{}, projectID, id)
}
