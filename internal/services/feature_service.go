package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/constants"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/types"
	"gorm.io/gorm"
)

var (
	ErrFeatureNotFound        = errors.New("feature not found")
	ErrFeatureNameRequired    = errors.New("feature name is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// FeatureService handles feature business logic
type FeatureService struct {
	projectRepo repository.ProjectRepository
	featureRepo repository.FeatureRepository
	drafter     TaskDrafter
}

// NewFeatureService creates a new FeatureService. drafter may be nil when
// no AI backend is configured.
func NewFeatureService(projectRepo repository.ProjectRepository, featureRepo repository.FeatureRepository, drafter TaskDrafter) *FeatureService {
	return &FeatureService{
		projectRepo: projectRepo,
		featureRepo: featureRepo,
		drafter:     drafter,
	}
}

// CreateFeatureInput represents input for creating a feature
type CreateFeatureInput struct {
	Name               string
	Details            *string
	UserStory          *string
	CoreRequirements   *string
	AcceptanceCriteria *string
	TechnicalNotes     *string
}

// UpdateFeatureInput represents a partial feature update
type UpdateFeatureInput struct {
	Name               types.Optional[string]
	Details            types.Optional[string]
	UserStory          types.Optional[string]
	CoreRequirements   types.Optional[string]
	AcceptanceCriteria types.Optional[string]
	TechnicalNotes     types.Optional[string]
}

func (s *FeatureService) CreateFeature(scope ProjectScope, input CreateFeatureInput) (*models.Feature, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFeatureNameRequired
	}
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	feature := &models.Feature{
		ProjectID:          scope.ProjectID,
		OwnerID:            scope.OwnerID,
		Name:               name,
		Details:            input.Details,
		UserStory:          input.UserStory,
		CoreRequirements:   input.CoreRequirements,
		AcceptanceCriteria: input.AcceptanceCriteria,
		TechnicalNotes:     input.TechnicalNotes,
	}
	if err := s.featureRepo.Create(feature); err != nil {
		return nil, fmt.Errorf("failed to create feature: %w", err)
	}
	return feature, nil
}

func (s *FeatureService) ListFeatures(scope ProjectScope) ([]models.Feature, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	features, err := s.featureRepo.List(scope.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	return features, nil
}

func (s *FeatureService) GetFeature(scope ProjectScope, featureID uuid.UUID) (*models.Feature, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	return s.find(scope.ProjectID, featureID)
}

func (s *FeatureService) UpdateFeature(scope ProjectScope, featureID uuid.UUID, input UpdateFeatureInput) (*models.Feature, error) {
	feature, err := s.GetFeature(scope, featureID)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		name := strings.TrimSpace(input.Name.Value)
		if input.Name.Null || name == "" {
			return nil, ErrFeatureNameRequired
		}
		feature.Name = name
	}
	if input.Details.Set {
		feature.Details = input.Details.Ptr()
	}
	if input.UserStory.Set {
		feature.UserStory = input.UserStory.Ptr()
	}
	if input.CoreRequirements.Set {
		feature.CoreRequirements = input.CoreRequirements.Ptr()
	}
	if input.AcceptanceCriteria.Set {
		feature.AcceptanceCriteria = input.AcceptanceCriteria.Ptr()
	}
	if input.TechnicalNotes.Set {
		feature.TechnicalNotes = input.TechnicalNotes.Ptr()
	}

	if err := s.featureRepo.Update(feature); err != nil {
		return nil, fmt.Errorf("failed to update feature: %w", err)
	}
	return feature, nil
}

// DeleteFeature removes a feature; its tasks stay on the board unlinked
func (s *FeatureService) DeleteFeature(scope ProjectScope, featureID uuid.UUID) error {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return err
	}
	if err := s.featureRepo.Delete(scope.ProjectID, featureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeatureNotFound
		}
		return fmt.Errorf("failed to delete feature: %w", err)
	}
	return nil
}

// SuggestTasks drafts tasks for a feature. Nothing is persisted.
func (s *FeatureService) SuggestTasks(ctx context.Context, scope ProjectScope, featureID uuid.UUID) ([]DraftTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	feature, err := s.GetFeature(scope, featureID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.drafter.DraftTasks(ctx, FeatureBrief{
		Name:               feature.Name,
		Details:            deref(feature.Details),
		UserStory:          deref(feature.UserStory),
		CoreRequirements:   deref(feature.CoreRequirements),
		AcceptanceCriteria: deref(feature.AcceptanceCriteria),
		TechnicalNotes:     deref(feature.TechnicalNotes),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		drafts = drafts[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]DraftTask, 0, len(drafts))
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			continue
		}

		// unknown tags are dropped rather than failing the whole draft
		if d.Priority != nil {
			if p, err := board.ParsePriority(*d.Priority); err == nil {
				v := string(p)
				d.Priority = &v
			} else {
				d.Priority = nil
			}
		}
		if d.Architecture != nil {
			if a, err := board.ParseArchitecture(*d.Architecture); err == nil {
				v := string(a)
				d.Architecture = &v
			} else {
				d.Architecture = nil
			}
		}

		valid = append(valid, d)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func (s *FeatureService) find(projectID, featureID uuid.UUID) (*models.Feature, error) {
	feature, err := s.featureRepo.FindInProject(projectID, featureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("failed to find feature: %w", err)
	}
	return feature, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
