package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses.
const (
	StatusDraft = "draft"
	StatusDone  = "done"
)

// Project is a dashboard specification. Enhancements point at the root of
// their lineage through ParentProjectID.
type Project struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	Audience          string     `gorm:"type:text" json:"audience"`
	Status            string     `gorm:"type:varchar(16);not null;default:draft;index" json:"status" validate:"oneof=draft done"`
	VersionNumber     int        `gorm:"not null;default:1" json:"version_number" validate:"gte=1"`
	ParentProjectID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_project_id"`
	HasAppendixTab    bool       `gorm:"not null;default:false" json:"has_appendix_tab"`
	HasMetricLogicTab bool       `gorm:"not null;default:false" json:"has_metric_logic_tab"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;index;not null" json:"created_by"`
	UpdatedBy         *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Enhancements           []Project               `gorm:"foreignKey:ParentProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Functional             *FunctionalRequirements `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Design                 *DesignRequirements     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Tabs                   []DashboardTab          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Filters                []Filter                `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Tasks                  []Task                  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	AdditionalRequirements []AdditionalRequirement `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	History                []ChangeHistory         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// RootID returns the id of the version tree this project belongs to.
func (p *Project) RootID() uuid.UUID {
	if p.ParentProjectID != nil {
		return *p.ParentProjectID
	}
	return p.ID
}

// IsDone reports whether the project has been marked complete.
func (p *Project) IsDone() bool { return p.Status == StatusDone }
