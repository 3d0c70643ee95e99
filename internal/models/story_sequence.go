package models

import "github.com/google/uuid"

// StorySequence holds the next story number to hand out for a project.
type StorySequence struct {
	ProjectID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"project_id"`
	NextNum   int64     `gorm:"not null" json:"next_num"`
}
