package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by board listings. Single
// column and unique indexes come from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board view and status filter
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		// Default task ordering
		{"tasks", "idx_tasks_project_created", "project_id, created_at"},
		{"features", "idx_features_project_created", "project_id, created_at"},
		{"documents", "idx_documents_project_uploaded", "project_id, uploaded_at"},
		{"board_columns", "idx_columns_project_pos", "project_id, pos"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
