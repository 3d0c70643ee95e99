package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/models"
)

// ColumnDTO represents a board column
type ColumnDTO struct {
	ID    uuid.UUID `json:"id"`
	Key   string    `json:"key"`
	Title string    `json:"title"`
	Pos   int       `json:"pos"`
}

// ProjectDTO represents a project; Columns is only filled when requested
type ProjectDTO struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Columns   []ColumnDTO `json:"columns,omitempty"`
}

// FeatureDTO represents a feature in API responses
type FeatureDTO struct {
	ID                 uuid.UUID `json:"id"`
	ProjectID          uuid.UUID `json:"project_id"`
	Name               string    `json:"name"`
	Details            *string   `json:"details"`
	UserStory          *string   `json:"user_story"`
	CoreRequirements   *string   `json:"core_requirements"`
	AcceptanceCriteria *string   `json:"acceptance_criteria"`
	TechnicalNotes     *string   `json:"technical_notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HubSectionDTO represents a hub section in API responses
type HubSectionDTO struct {
	ID          uuid.UUID       `json:"id"`
	SectionType string          `json:"section_type"`
	Content     json.RawMessage `json:"content"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DocumentDTO represents document metadata. The stored name stays internal.
type DocumentDTO struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func ToColumnDTO(column models.Column) ColumnDTO {
	return ColumnDTO{
		ID:    column.ID,
		Key:   column.Key,
		Title: column.Title,
		Pos:   column.Pos,
	}
}

func ToColumnDTOs(columns []models.Column) []ColumnDTO {
	out := make([]ColumnDTO, len(columns))
	for i, c := range columns {
		out[i] = ToColumnDTO(c)
	}
	return out
}

// ToProjectDTO converts a Project model, including columns if preloaded
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
	if len(project.Columns) > 0 {
		dto.Columns = ToColumnDTOs(project.Columns)
	}
	return dto
}

func ToFeatureDTO(feature models.Feature) FeatureDTO {
	return FeatureDTO{
		ID:                 feature.ID,
		ProjectID:          feature.ProjectID,
		Name:               feature.Name,
		Details:            feature.Details,
		UserStory:          feature.UserStory,
		CoreRequirements:   feature.CoreRequirements,
		AcceptanceCriteria: feature.AcceptanceCriteria,
		TechnicalNotes:     feature.TechnicalNotes,
		CreatedAt:          feature.CreatedAt,
		UpdatedAt:          feature.UpdatedAt,
	}
}

func ToHubSectionDTO(section models.HubSection) HubSectionDTO {
	content := json.RawMessage(section.Content.JSON)
	if len(content) == 0 {
		content = json.RawMessage("{}")
	}
	return HubSectionDTO{
		ID:          section.ID,
		SectionType: section.SectionType,
		Content:     content,
		CreatedBy:   section.CreatedBy,
		CreatedAt:   section.CreatedAt,
		UpdatedAt:   section.UpdatedAt,
	}
}

func ToDocumentDTO(doc models.Document) DocumentDTO {
	return DocumentDTO{
		ID:           doc.ID,
		ProjectID:    doc.ProjectID,
		OriginalName: doc.OriginalName,
		ContentType:  doc.ContentType,
		Size:         doc.Size,
		UploadedAt:   doc.UploadedAt,
	}
}
