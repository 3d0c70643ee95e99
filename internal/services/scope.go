package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/board"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/storage"
	"gorm.io/gorm"
)

// ProjectScope names a project as seen by the user acting on it. A project
// owned by someone else is reported as not found.
type ProjectScope struct {
	OwnerID   uuid.UUID
	ProjectID uuid.UUID
}

func ensureProject(repo repository.ProjectRepository, scope ProjectScope) (*models.Project, error) {
	project, err := repo.FindOwned(scope.OwnerID, scope.ProjectID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func defaultColumnModels() []models.Column {
	specs := board.DefaultColumns()
	cols := make([]models.Column, len(specs))
	for i, s := range specs {
		cols[i] = models.Column{Key: s.Key, Title: s.Title, Pos: s.Pos}
	}
	return cols
}

// removeStoredFiles deletes document content after its records are gone.
// Failures leave orphan files behind and are only logged.
func removeStoredFiles(ctx context.Context, store storage.Store, names []string) {
	for _, name := range names {
		exists, err := store.Exists(ctx, name)
		if err != nil {
			log.Printf("Failed to check stored file %s: %v", name, err)
			continue
		}
		if !exists {
			continue
		}
		if err := store.Delete(ctx, name); err != nil {
			log.Printf("Failed to delete stored file %s: %v", name, err)
		}
	}
}
