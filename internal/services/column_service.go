package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
)

var ErrColumnExists = errors.New("a column with this key already exists")

const maxColumnTitleLength = 128

// ColumnService manages the status columns of project boards
type ColumnService struct {
	projectRepo repository.ProjectRepository
	columnRepo  repository.ColumnRepository
}

// NewColumnService creates a new ColumnService
func NewColumnService(projectRepo repository.ProjectRepository, columnRepo repository.ColumnRepository) *ColumnService {
	return &ColumnService{
		projectRepo: projectRepo,
		columnRepo:  columnRepo,
	}
}

// CreateColumn appends a column whose key is derived from its title
func (s *ColumnService) CreateColumn(scope ProjectScope, title string) (*models.Column, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if len(title) > maxColumnTitleLength {
		return nil, board.ErrInvalidColumnTitle
	}
	key, err := board.ColumnKey(title)
	if err != nil {
		return nil, err
	}

	column := &models.Column{
		ProjectID: scope.ProjectID,
		Key:       key,
		Title:     title,
	}
	if err := s.columnRepo.Append(column); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrColumnExists
		}
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}

// ListColumns returns the columns of a project in board order
func (s *ColumnService) ListColumns(scope ProjectScope) ([]models.Column, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return nil, err
	}
	columns, err := s.columnRepo.List(scope.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// SeedDefaults gives a project the default columns if it has none and
// reports how many columns were added.
func (s *ColumnService) SeedDefaults(scope ProjectScope) (int64, error) {
	if _, err := ensureProject(s.projectRepo, scope); err != nil {
		return 0, err
	}
	n, err := s.columnRepo.SeedDefaults(scope.ProjectID, defaultColumnModels())
	if err != nil {
		return 0, fmt.Errorf("failed to seed columns: %w", err)
	}
	return n, nil
}
