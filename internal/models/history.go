package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Change types recorded in the audit log.
const (
	ChangeCreate  = "create"
	ChangeUpdate  = "update"
	ChangeDelete  = "delete"
	ChangeVersion = "version"
)

// ChangeHistory is an append-only audit entry for a project.
type ChangeHistory struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"project_id"`
	ChangeType        string         `gorm:"type:varchar(16);not null" json:"change_type" validate:"oneof=create update delete version"`
	ChangeDescription string         `gorm:"type:text" json:"change_description"`
	Snapshot          datatypes.JSON `json:"snapshot" swaggertype:"object"`
	ChangedBy         uuid.UUID      `gorm:"type:uuid;index;not null" json:"changed_by"`
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`
}

func (ChangeHistory) TableName() string { return "change_history" }

func (h *ChangeHistory) BeforeCreate(tx *gorm.DB) error {
	assignID(&h.ID)
	return nil
}
