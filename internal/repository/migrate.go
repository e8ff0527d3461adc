package repository

import (
	"fmt"

	"github.com/dashspec/engine/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, then applies dialect specific
// migrations AutoMigrate can't express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresMigrations {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("custom migration: %w", err)
		}
	}
	return nil
}

var postgresMigrations = []string{
	// Version lookups scan a root and its enhancements.
	`CREATE INDEX IF NOT EXISTS idx_projects_lineage ON projects (COALESCE(parent_project_id, id), version_number)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_order ON tasks (project_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_filters_global ON filters (project_id, order_index) WHERE tab_id IS NULL`,
}
