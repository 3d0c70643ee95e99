package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

type TaskArchitecture string

const (
	ArchitectureFrontend TaskArchitecture = "FE"
	ArchitectureBackend  TaskArchitecture = "BE"
	ArchitectureDatabase TaskArchitecture = "DB"
	ArchitectureArch     TaskArchitecture = "ARCH"
	ArchitectureMisc     TaskArchitecture = "MISC"
)

// Task is a card on the board. Status holds the key of one of the project's columns.
type Task struct {
	ID                 uuid.UUID         `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID          uuid.UUID         `gorm:"type:varchar(36);not null;uniqueIndex:idx_tasks_project_story" json:"project_id"`
	OwnerID            uuid.UUID         `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	FeatureID          *uuid.UUID        `gorm:"type:varchar(36);index" json:"feature_id"`
	Title              string            `gorm:"type:varchar(255);not null" json:"title"`
	Description        *string           `gorm:"type:text" json:"description"`
	AcceptanceCriteria *string           `gorm:"type:text" json:"acceptance_criteria"`
	Assignee           *string           `gorm:"type:varchar(255);index" json:"assignee"`
	Priority           *TaskPriority     `gorm:"type:varchar(16)" json:"priority"`
	Architecture       *TaskArchitecture `gorm:"type:varchar(16)" json:"architecture"`
	Status             string            `gorm:"type:varchar(64);not null;index" json:"status"`
	StoryID            string            `gorm:"type:varchar(32);not null;uniqueIndex:idx_tasks_project_story" json:"story_id"`
	StoryNum           *int64            `json:"story_num"`
	DueDate            *time.Time        `json:"due_date"`
	CreatedAt          time.Time         `gorm:"index" json:"created_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Relations
	Owner   User     `gorm:"foreignKey:OwnerID" json:"-"`
	Feature *Feature `gorm:"foreignKey:FeatureID;constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MoveTo places the task in the column identified by status. Entering the
// terminal column stamps CompletedAt once; leaving it never clears the stamp.
// It reports whether this move completed the task for the first time.
func (t *Task) MoveTo(status, terminal string, now time.Time) bool {
	t.Status = status
	if status == terminal && t.CompletedAt == nil {
		completed := now
		t.CompletedAt = &completed
		return true
	}
	return false
}
