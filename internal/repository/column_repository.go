package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormColumnRepository is a GORM implementation of ColumnRepository
type GormColumnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &GormColumnRepository{db: db}
}

// SeedDefaults seeds columns for a project that has none
func (r *GormColumnRepository) SeedDefaults(projectID uuid.UUID, columns []models.Column) (int64, error) {
	var inserted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		inserted, err = seedColumns(tx, projectID, columns)
		return err
	})
	return inserted, err
}

// seedColumns skips projects that already have columns. A concurrent seed
// that slips past the count is absorbed by the unique (project_id, key) index.
func seedColumns(tx *gorm.DB, projectID uuid.UUID, columns []models.Column) (int64, error) {
	var existing int64
	if err := tx.Model(&models.Column{}).Where("project_id = ?", projectID).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("count columns: %w", err)
	}
	if existing > 0 || len(columns) == 0 {
		return 0, nil
	}

	rows := make([]models.Column, len(columns))
	for i, c := range columns {
		c.ProjectID = projectID
		rows[i] = c
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("seed columns: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Append inserts a column after the existing ones
func (r *GormColumnRepository) Append(column *models.Column) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Column{}).
			Where(&models.Column{ProjectID: column.ProjectID, Key: column.Key}).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrDuplicate
		}

		var count int64
		if err := tx.Model(&models.Column{}).Where("project_id = ?", column.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		column.Pos = int(count)

		return translate(tx.Create(column).Error)
	})
}

// List returns columns ordered by position
func (r *GormColumnRepository) List(projectID uuid.UUID) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.Scopes(database.InProject(projectID)).
		Order("pos ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// Keys returns the column keys of a project in board order
func (r *GormColumnRepository) Keys(projectID uuid.UUID) ([]string, error) {
	var keys []string
	if err := r.db.Model(&models.Column{}).
		Where("project_id = ?", projectID).
		Order("pos ASC").
		Pluck("column_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
