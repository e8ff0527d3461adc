package repository

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gateway bundles the per-entity repositories behind one handle. It is the
// persistence surface the conversation engine and the services work against.
type Gateway struct {
	db *gorm.DB

	Projects     ProjectRepository
	Requirements RequirementsRepository
	Tabs         TabRepository
	Filters      FilterRepository
	Tasks        TaskRepository
	Additional   AdditionalRequirementRepository
	History      HistoryRepository
	Users        UserRepository
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{
		db:           db,
		Projects:     NewProjectRepository(db),
		Requirements: NewRequirementsRepository(db),
		Tabs:         NewTabRepository(db),
		Filters:      NewFilterRepository(db),
		Tasks:        NewTaskRepository(db),
		Additional:   NewAdditionalRequirementRepository(db),
		History:      NewHistoryRepository(db),
		Users:        NewUserRepository(db),
	}
}

// DB returns the underlying connection.
func (g *Gateway) DB() *gorm.DB { return g.db }

// Transaction runs fn with a Gateway bound to a single transaction. Inside fn
// only the passed gateway may be used.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGateway(tx))
	})
}

func (g *Gateway) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := g.Projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *Gateway) GetFunctional(ctx context.Context, projectID uuid.UUID) (*models.FunctionalRequirements, error) {
	return g.Requirements.GetFunctional(ctx, projectID)
}

func (g *Gateway) GetDesign(ctx context.Context, projectID uuid.UUID) (*models.DesignRequirements, error) {
	return g.Requirements.GetDesign(ctx, projectID)
}

func (g *Gateway) ListTabs(ctx context.Context, projectID uuid.UUID) ([]models.DashboardTab, error) {
	return g.Tabs.ListByProject(ctx, projectID)
}

func (g *Gateway) ListGlobalFilters(ctx context.Context, projectID uuid.UUID) ([]models.Filter, error) {
	return g.Filters.ListGlobal(ctx, projectID)
}

func (g *Gateway) UpdateProjectFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error {
	return g.Projects.UpdateFields(ctx, projectID, fields)
}

func (g *Gateway) UpsertFunctional(ctx context.Context, projectID uuid.UUID, patch map[string]any) error {
	return g.Requirements.UpsertFunctional(ctx, projectID, patch)
}

func (g *Gateway) UpsertDesign(ctx context.Context, projectID uuid.UUID, patch map[string]any) error {
	return g.Requirements.UpsertDesign(ctx, projectID, patch)
}

func (g *Gateway) ReplaceTabs(ctx context.Context, projectID uuid.UUID, names []string) error {
	return g.Tabs.Replace(ctx, projectID, names)
}

func (g *Gateway) ReplaceGlobalFilters(ctx context.Context, projectID uuid.UUID, names []string) error {
	return g.Filters.ReplaceGlobal(ctx, projectID, names)
}

func (g *Gateway) AppendAdditional(ctx context.Context, projectID uuid.UUID, category, content string) error {
	return g.Additional.Append(ctx, projectID, category, content)
}
