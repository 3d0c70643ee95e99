package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HubSection is a free-form document block of a project; one per section type.
type HubSection struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_hub_sections_project_type" json:"project_id"`
	SectionType string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_hub_sections_project_type" json:"section_type"`
	Content     JSON      `json:"content"`
	CreatedBy   string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name for HubSection
func (HubSection) TableName() string {
	return "project_hub_sections"
}

func (h *HubSection) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
