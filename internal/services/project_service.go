package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

const maxProjectNameLength = 255

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	store       storage.Store
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, store storage.Store) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		store:       store,
	}
}

// CreateProject creates a project with its default board columns
func (s *ProjectService) CreateProject(ownerID uuid.UUID, name string) (*models.Project, error) {
	name, err := validProjectName(name)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.projectRepo.CreateWithDefaults(project, defaultColumnModels()); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProjectWithColumns(ownerID, project.ID)
}

// ListProjects returns the projects of a user, newest first
func (s *ProjectService) ListProjects(ownerID uuid.UUID) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project without its columns
func (s *ProjectService) GetProject(ownerID, id uuid.UUID) (*models.Project, error) {
	return s.find(ownerID, id, false)
}

// GetProjectWithColumns returns a project with its columns in board order
func (s *ProjectService) GetProjectWithColumns(ownerID, id uuid.UUID) (*models.Project, error) {
	return s.find(ownerID, id, true)
}

func (s *ProjectService) find(ownerID, id uuid.UUID, withColumns bool) (*models.Project, error) {
	project, err := s.projectRepo.FindOwned(ownerID, id, withColumns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// RenameProject changes the name of a project
func (s *ProjectService) RenameProject(ownerID, id uuid.UUID, name string) (*models.Project, error) {
	name, err := validProjectName(name)
	if err != nil {
		return nil, err
	}

	project, err := s.GetProject(ownerID, id)
	if err != nil {
		return nil, err
	}

	project.Name = name
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project with everything it owns, then the stored
// files of its documents.
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.GetProject(ownerID, id); err != nil {
		return err
	}

	storedNames, err := s.projectRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	removeStoredFiles(ctx, s.store, storedNames)
	return nil
}

func validProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxProjectNameLength {
		return "", ErrProjectNameRequired
	}
	return name, nil
}
