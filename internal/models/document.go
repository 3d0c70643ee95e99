package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the metadata of a file kept in the document store under StoredName.
type Document struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"project_id"`
	StoredName   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"stored_name"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	ContentType  string    `gorm:"type:varchar(255)" json:"content_type"`
	Size         int64     `gorm:"not null;default:0" json:"size"`
	UploadedAt   time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
