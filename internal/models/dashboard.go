package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardTab is one page of the dashboard. OrderIndex is dense from 0.
type DashboardTab struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Name       string    `gorm:"not null" json:"name"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`

	Filters []Filter `gorm:"foreignKey:TabID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (DashboardTab) TableName() string { return "dashboard_tabs" }

func (t *DashboardTab) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// Filter narrows dashboard data. A nil TabID makes it global to the project.
type Filter struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`
	TabID        *uuid.UUID `gorm:"type:uuid;index" json:"tab_id"`
	Name         string     `gorm:"not null" json:"name"`
	DataSource   string     `json:"data_source"`
	MultiSelect  bool       `gorm:"not null;default:false" json:"multi_select"`
	DefaultValue string     `json:"default_value"`
	OrderIndex   int        `gorm:"not null;default:0" json:"order_index"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (f *Filter) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// Task is a checklist item tracked against a project.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	Description string    `gorm:"type:text;not null" json:"description" validate:"required"`
	OrderIndex  int       `gorm:"not null" json:"order_index"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
