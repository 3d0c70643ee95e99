package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	OwnerID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner       User           `gorm:"foreignKey:OwnerID" json:"-"`
	Columns     []Column       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
	Tasks       []Task         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Features    []Feature      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	HubSections []HubSection   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Documents   []Document     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Sequence    *StorySequence `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
