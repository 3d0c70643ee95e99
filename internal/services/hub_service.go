package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSectionNotFound       = errors.New("hub section not found")
	ErrSectionTypeRequired   = errors.New("section type is required")
	ErrInvalidSectionContent = errors.New("section content must be a JSON object")
)

const maxSectionTypeLength = 100

// HubService manages the free-form hub sections of a project
type HubService struct {
	projectRepo repository.ProjectRepository
	hubRepo     repository.HubSectionRepository
	userRepo    repository.UserRepository
}

// NewHubService creates a new HubService
func NewHubService(projectRepo repository.ProjectRepository, hubRepo repository.HubSectionRepository, userRepo repository.UserRepository) *HubService {
	return &HubService{
		projectRepo: projectRepo,
		hubRepo:     hubRepo,
		userRepo:    userRepo,
	}
}

// UpsertSection creates the section of the given type or replaces its content
func (s *HubService) UpsertSection(scope ProjectScope, sectionType string, content json.RawMessage) (*models.HubSection, error) {
	sectionType, err := validSectionType(sectionType)
	if err != nil {
		return nil, err
	}
	if !isJSONObject(content) {
		return nil, ErrInvalidSectionContent
	}
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	section := &models.HubSection{
		ProjectID:   scope.ProjectID,
		SectionType: sectionType,
		Content:     models.JSON{JSON: datatypes.JSON(content)},
		CreatedBy:   s.author(scope),
	}
	if err := s.hubRepo.Upsert(section); err != nil {
		return nil, fmt.Errorf("failed to save hub section: %w", err)
	}
	return section, nil
}

func (s *HubService) ListSections(scope ProjectScope) ([]models.HubSection, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	sections, err := s.hubRepo.List(scope.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hub sections: %w", err)
	}
	return sections, nil
}

func (s *HubService) GetSection(scope ProjectScope, sectionType string) (*models.HubSection, error) {
	sectionType, err := validSectionType(sectionType)
	if err != nil {
		return nil, err
	}
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	section, err := s.hubRepo.Find(scope.ProjectID, sectionType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to find hub section: %w", err)
	}
	return section, nil
}

func (s *HubService) DeleteSection(scope ProjectScope, sectionType string) error {
	sectionType, err := validSectionType(sectionType)
	if err != nil {
		return err
	}
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return err
	}

	if err := s.hubRepo.Delete(scope.ProjectID, sectionType); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to delete hub section: %w", err)
	}
	return nil
}

// author attributes a section to the acting user's email
func (s *HubService) author(scope ProjectScope) string {
	user, err := s.userRepo.FindByID(scope.OwnerID)
	if err != nil {
		return scope.OwnerID.String()
	}
	return user.Email
}

func validSectionType(sectionType string) (string, error) {
	sectionType = strings.TrimSpace(sectionType)
	if sectionType == "" || len(sectionType) > maxSectionTypeLength {
		return "", ErrSectionTypeRequired
	}
	return sectionType, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}
