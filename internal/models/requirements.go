package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FunctionalRequirements holds the data side of a dashboard. One row per project.
type FunctionalRequirements struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"project_id"`
	DataSources datatypes.JSONSlice[string] `json:"data_sources"`
	Metrics     datatypes.JSONSlice[string] `json:"metrics"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (FunctionalRequirements) TableName() string { return "functional_requirements" }

func (r *FunctionalRequirements) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// DesignRequirements holds the look and feel of a dashboard. One row per project.
type DesignRequirements struct {
	ID                     uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID              uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"project_id"`
	DashboardSize          string                      `json:"dashboard_size"`
	ColorPalette           datatypes.JSONSlice[string] `json:"color_palette"`
	Fonts                  datatypes.JSONSlice[string] `json:"fonts"`
	LogoURL                string                      `json:"logo_url"`
	LogoLocation           string                      `json:"logo_location"`
	AdditionalRequirements string                      `gorm:"type:text" json:"additional_requirements"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
}

func (DesignRequirements) TableName() string { return "design_requirements" }

func (r *DesignRequirements) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// Requirement categories for AdditionalRequirement rows.
const (
	CategoryFunctional = "functional"
	CategoryDesign     = "design"
)

// AdditionalRequirement is a free-form note captured at the end of a conversation.
type AdditionalRequirement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Category  string    `gorm:"type:varchar(16);not null" json:"category" validate:"oneof=functional design"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *AdditionalRequirement) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
