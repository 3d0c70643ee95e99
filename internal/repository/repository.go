package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert or update hits a unique key.
var ErrDuplicate = errors.New("repository: duplicate key")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// FindByResetTokenHash finds the user holding a password reset token
	FindByResetTokenHash(hash string) (*models.User, error)

	// Update saves all fields of a user
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithDefaults inserts a project together with its default columns
	// and its story sequence in one transaction.
	CreateWithDefaults(project *models.Project, columns []models.Column) error

	// FindOwned finds a project of the given owner, optionally with ordered columns
	FindOwned(ownerID, id uuid.UUID, withColumns bool) (*models.Project, error)

	// ListByOwner lists the projects of a user, newest first
	ListByOwner(ownerID uuid.UUID) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and every row it owns. It returns the stored
	// names of the project's documents so their files can be removed.
	Delete(id uuid.UUID) ([]string, error)
}

// ColumnRepository defines the interface for board column data access
type ColumnRepository interface {
	// SeedDefaults inserts columns into a project that has none yet and
	// reports how many were inserted.
	SeedDefaults(projectID uuid.UUID, columns []models.Column) (int64, error)

	// Append inserts a column at the end of the project's board
	Append(column *models.Column) error

	// List returns the columns of a project ordered by position
	List(projectID uuid.UUID) ([]models.Column, error)

	// Keys returns the column keys of a project
	Keys(projectID uuid.UUID) ([]string, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task. When StoryID is empty a story is allocated in
	// the same transaction.
	Create(task *models.Task) error

	// FindInProject finds a task that belongs to the project
	FindInProject(projectID, id uuid.UUID) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// Delete hard deletes a task of the project
	Delete(projectID, id uuid.UUID) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID uuid.UUID
	Status    *string
	Assignee  *string
	FeatureID *uuid.UUID
	// Query is matched case-insensitively against the title
	Query    string
	Page     int
	PageSize int
}

// FeatureRepository defines the interface for feature data access
type FeatureRepository interface {
	Create(feature *models.Feature) error
	FindInProject(projectID, id uuid.UUID) (*models.Feature, error)
	List(projectID uuid.UUID) ([]models.Feature, error)
	Update(feature *models.Feature) error

	// Delete removes a feature and detaches its tasks
	Delete(projectID, id uuid.UUID) error
}

// HubSectionRepository defines the interface for project hub data access
type HubSectionRepository interface {
	// Upsert inserts the section or replaces the content of the existing
	// section with the same type, then reloads it into section.
	Upsert(section *models.HubSection) error
	Find(projectID uuid.UUID, sectionType string) (*models.HubSection, error)
	List(projectID uuid.UUID) ([]models.HubSection, error)
	Delete(projectID uuid.UUID, sectionType string) error
}

// DocumentRepository defines the interface for document metadata access
type DocumentRepository interface {
	Create(doc *models.Document) error
	FindInProject(projectID, id uuid.UUID) (*models.Document, error)
	List(projectID uuid.UUID) ([]models.Document, error)
	Delete(projectID, id uuid.UUID) error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// deleteScoped deletes one row of a project-owned table and reports
// gorm.ErrRecordNotFound when nothing matched.
func deleteScoped(db *gorm.DB, model interface{}, projectID, id uuid.UUID) error {
	res := db.Where("project_id = ? AND id = ?", projectID, id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
