package models

import (
	"github.com/google/uuid"
)

// assignID gives a row a fresh UUID unless the caller already chose one.
// Keys are generated client side so the same models work on SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// AllModels returns every model in dependency order for migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&FunctionalRequirements{},
		&DesignRequirements{},
		&DashboardTab{},
		&Filter{},
		&Task{},
		&AdditionalRequirement{},
		&ChangeHistory{},
	}
}
