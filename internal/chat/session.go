package chat

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	"github.com/google/uuid"
)

// Answers holds every value either flow collects, keyed by step name in JSON.
type Answers struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	DataSources []string `json:"data_sources,omitempty"`
	Metrics     []string `json:"metrics,omitempty"`
	Tabs        []string `json:"tabs,omitempty"`
	Filters     []string `json:"filters,omitempty"`
	Appendix    bool     `json:"appendix"`
	MetricLogic bool     `json:"metric_logic"`

	DashboardSize          string   `json:"dashboard_size,omitempty"`
	ColorPalette           []string `json:"color_palette,omitempty"`
	Fonts                  []string `json:"fonts,omitempty"`
	LogoURL                string   `json:"logo_url,omitempty"`
	LogoLocation           string   `json:"logo_location,omitempty"`
	AdditionalRequirements string   `json:"additional_requirements,omitempty"`
}

// Session is the whole conversation state. The engine never keeps it; it is
// passed in and handed back on every call.
type Session struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Flow      Flow      `json:"flow"`
	Step      Step      `json:"step"`
	Data      Answers   `json:"data"`
}

// Done reports whether the flow reached its terminal step.
func (s Session) Done() bool { return s.Step == StepComplete }

// Store is the persistence the engine reads answers from and writes them to.
// repository.Gateway implements it.
type Store interface {
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetFunctional(ctx context.Context, projectID uuid.UUID) (*models.FunctionalRequirements, error)
	GetDesign(ctx context.Context, projectID uuid.UUID) (*models.DesignRequirements, error)
	ListTabs(ctx context.Context, projectID uuid.UUID) ([]models.DashboardTab, error)
	ListGlobalFilters(ctx context.Context, projectID uuid.UUID) ([]models.Filter, error)

	UpdateProjectFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error
	UpsertFunctional(ctx context.Context, projectID uuid.UUID, patch map[string]any) error
	UpsertDesign(ctx context.Context, projectID uuid.UUID, patch map[string]any) error
	ReplaceTabs(ctx context.Context, projectID uuid.UUID, names []string) error
	ReplaceGlobalFilters(ctx context.Context, projectID uuid.UUID, names []string) error
	AppendAdditional(ctx context.Context, projectID uuid.UUID, category, content string) error
}
