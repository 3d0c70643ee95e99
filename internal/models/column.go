package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column is a status bucket of a project board. Key is unique within the project.
type Column struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_columns_project_key" json:"project_id"`
	Key       string    `gorm:"column:column_key;type:varchar(64);not null;uniqueIndex:idx_columns_project_key" json:"key"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Pos       int       `gorm:"not null;default:0" json:"pos"`
}

// TableName overrides the table name for Column
func (Column) TableName() string {
	return "board_columns"
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
