package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feature struct {
	ID                 uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID          uuid.UUID `gorm:"type:varchar(36);not null;index" json:"project_id"`
	OwnerID            uuid.UUID `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	Details            *string   `gorm:"type:text" json:"details"`
	UserStory          *string   `gorm:"type:text" json:"user_story"`
	CoreRequirements   *string   `gorm:"type:text" json:"core_requirements"`
	AcceptanceCriteria *string   `gorm:"type:text" json:"acceptance_criteria"`
	TechnicalNotes     *string   `gorm:"type:text" json:"technical_notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
