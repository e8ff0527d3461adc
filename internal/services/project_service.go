package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Enhancement copy modes.
const (
	CopyDeep    = "deep"
	CopyShallow = "shallow"
)

// ProjectService is the project lifecycle: creation, edits, completion,
// enhancement versions and deletion, each recorded in the change history.
type ProjectService interface {
	CreateProject(ctx context.Context, userID uuid.UUID, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID, filters *ProjectFilters) ([]models.Project, error)
	ListVersions(ctx context.Context, projectID uuid.UUID) ([]models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, input *UpdateProjectInput) (*models.Project, error)
	MarkDone(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	CreateEnhancement(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error
	ListHistory(ctx context.Context, projectID uuid.UUID) ([]HistoryEntry, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
	Audience    string
}

// UpdateProjectInput carries only the fields to change.
type UpdateProjectInput struct {
	Name              *string
	Description       *string
	Audience          *string
	HasAppendixTab    *bool
	HasMetricLogicTab *bool
}

func (in *UpdateProjectInput) fields() map[string]any {
	out := map[string]any{}
	if in == nil {
		return out
	}
	if in.Name != nil {
		out["name"] = *in.Name
	}
	if in.Description != nil {
		out["description"] = *in.Description
	}
	if in.Audience != nil {
		out["audience"] = *in.Audience
	}
	if in.HasAppendixTab != nil {
		out["has_appendix_tab"] = *in.HasAppendixTab
	}
	if in.HasMetricLogicTab != nil {
		out["has_metric_logic_tab"] = *in.HasMetricLogicTab
	}
	return out
}

type ProjectFilters struct {
	// Mine limits the list to projects the caller created.
	Mine   bool
	Status string
}

// HistoryEntry is a change history row with the author's email resolved.
type HistoryEntry struct {
	models.ChangeHistory
	ChangedByEmail string `json:"changed_by_email,omitempty"`
}

type projectService struct {
	gw       *repository.Gateway
	copyMode string
}

func NewProjectService(gw *repository.Gateway, copyMode string) ProjectService {
	if copyMode != CopyShallow {
		copyMode = CopyDeep
	}
	return &projectService{gw: gw, copyMode: copyMode}
}

// Ensure interfaces are satisfied at compile time
var _ ProjectService = (*projectService)(nil)

// CreateProject inserts a draft version 1 project owned by userID.
func (s *projectService) CreateProject(ctx context.Context, userID uuid.UUID, input *CreateProjectInput) (*models.Project, error) {
	logger.L().Info("create project called", zap.String("user_id", userID.String()))
	if input == nil {
		input = &CreateProjectInput{}
	}

	p := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		Audience:      input.Audience,
		Status:        models.StatusDraft,
		VersionNumber: 1,
		CreatedBy:     userID,
		UpdatedBy:     &userID,
	}
	err := s.gw.Transaction(ctx, func(tx *repository.Gateway) error {
		if err := tx.Projects.Create(ctx, p); err != nil {
			return err
		}
		return tx.History.Append(ctx, p.ID, userID, models.ChangeCreate, "Project created", p)
	})
	if err != nil {
		logger.L().Error("create project failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("user_id", userID.String()))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	logger.L().Info("get project", zap.String("project_id", projectID.String()))
	return s.gw.GetProject(ctx, projectID)
}

func (s *projectService) ListProjects(ctx context.Context, userID uuid.UUID, filters *ProjectFilters) ([]models.Project, error) {
	logger.L().Info("list projects", zap.String("user_id", userID.String()))
	conds := repository.Conds{}
	if filters != nil {
		if filters.Mine {
			conds["created_by"] = userID
		}
		if filters.Status != "" {
			conds["status"] = filters.Status
		}
	}
	if len(conds) == 0 {
		return s.gw.Projects.ListAll(ctx)
	}
	return s.gw.Projects.List(ctx, conds, "updated_at DESC")
}

// ListVersions returns every version in the project's lineage, oldest first.
func (s *projectService) ListVersions(ctx context.Context, projectID uuid.UUID) ([]models.Project, error) {
	logger.L().Info("list versions", zap.String("project_id", projectID.String()))
	p, err := s.gw.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.gw.Projects.ListVersions(ctx, p.RootID())
}

func (s *projectService) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, input *UpdateProjectInput) (*models.Project, error) {
	logger.L().Info("update project", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))

	fields := input.fields()
	if len(fields) == 0 {
		return s.gw.GetProject(ctx, projectID)
	}
	fields["updated_by"] = userID

	var p *models.Project
	err := s.gw.Transaction(ctx, func(tx *repository.Gateway) error {
		if err := tx.Projects.UpdateFields(ctx, projectID, fields); err != nil {
			return err
		}
		var err error
		if p, err = tx.GetProject(ctx, projectID); err != nil {
			return err
		}
		return tx.History.Append(ctx, projectID, userID, models.ChangeUpdate, describeUpdate(fields), p)
	})
	if err != nil {
		logger.L().Error("update project failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}

	logger.L().Info("project updated", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))
	return p, nil
}

func describeUpdate(fields map[string]any) string {
	var changed []string
	for _, k := range []string{"name", "description", "audience", "has_appendix_tab", "has_metric_logic_tab"} {
		if _, ok := fields[k]; ok {
			changed = append(changed, k)
		}
	}
	return "Updated " + strings.Join(changed, ", ")
}

// MarkDone moves a project to done. Marking a done project again is a no-op.
func (s *projectService) MarkDone(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	logger.L().Info("mark project done", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))
	p, err := s.gw.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.IsDone() {
		return p, nil
	}
	if err := s.gw.Projects.UpdateFields(ctx, projectID, map[string]any{"status": models.StatusDone, "updated_by": userID}); err != nil {
		logger.L().Error("mark project done failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}
	return s.gw.GetProject(ctx, projectID)
}

// CreateEnhancement starts the next version of a done project. The new row
// always hangs off the lineage root and takes the highest version plus one.
func (s *projectService) CreateEnhancement(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	logger.L().Info("create enhancement", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()), zap.String("copy_mode", s.copyMode))

	var next *models.Project
	err := s.gw.Transaction(ctx, func(tx *repository.Gateway) error {
		cur, err := tx.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if !cur.IsDone() {
			return appErr.New(appErr.CodeFailedPrecondition, "project must be done before it can be enhanced").
				WithMeta("status", cur.Status)
		}

		root := cur.RootID()
		maxVersion, err := tx.Projects.MaxVersion(ctx, root)
		if err != nil {
			return err
		}
		version := maxVersion + 1

		next = &models.Project{
			Name:              fmt.Sprintf("%s - Enhancement v%d", cur.Name, version),
			Description:       cur.Description,
			Audience:          cur.Audience,
			Status:            models.StatusDraft,
			VersionNumber:     version,
			ParentProjectID:   &root,
			HasAppendixTab:    cur.HasAppendixTab,
			HasMetricLogicTab: cur.HasMetricLogicTab,
			CreatedBy:         userID,
			UpdatedBy:         &userID,
		}
		if err := tx.Projects.Create(ctx, next); err != nil {
			return err
		}
		if s.copyMode == CopyDeep {
			if err := copyRequirements(ctx, tx, cur.ID, next.ID); err != nil {
				return err
			}
		}
		desc := fmt.Sprintf("Enhancement v%d created from %s (v%d)", version, cur.ID, cur.VersionNumber)
		return tx.History.Append(ctx, next.ID, userID, models.ChangeVersion, desc, next)
	})
	if err != nil {
		if !appErr.IsCode(err, appErr.CodeFailedPrecondition) && !appErr.IsCode(err, appErr.CodeNotFound) {
			logger.L().Error("create enhancement failed", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return nil, err
	}

	logger.L().Info("enhancement created", zap.String("project_id", next.ID.String()), zap.Int("version", next.VersionNumber))
	return next, nil
}

// copyRequirements duplicates every dependent row of from onto to. Tab
// scoped filters follow their copied tab.
func copyRequirements(ctx context.Context, tx *repository.Gateway, from, to uuid.UUID) error {
	db := tx.DB().WithContext(ctx)

	fr, err := tx.Requirements.GetFunctional(ctx, from)
	if err != nil {
		return err
	}
	if fr != nil {
		c := *fr
		c.ID, c.ProjectID = uuid.Nil, to
		if err := db.Create(&c).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "copy functional requirements failed")
		}
	}

	dr, err := tx.Requirements.GetDesign(ctx, from)
	if err != nil {
		return err
	}
	if dr != nil {
		c := *dr
		c.ID, c.ProjectID = uuid.Nil, to
		if err := db.Create(&c).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "copy design requirements failed")
		}
	}

	tabs, err := tx.Tabs.ListByProject(ctx, from)
	if err != nil {
		return err
	}
	tabIDs := make(map[uuid.UUID]uuid.UUID, len(tabs))
	for _, t := range tabs {
		c := models.DashboardTab{ID: uuid.New(), ProjectID: to, Name: t.Name, OrderIndex: t.OrderIndex}
		if err := db.Create(&c).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "copy tabs failed")
		}
		tabIDs[t.ID] = c.ID
	}

	filters, err := tx.Filters.List(ctx, repository.Conds{"project_id": from}, "order_index ASC")
	if err != nil {
		return err
	}
	for _, f := range filters {
		c := f
		c.ID, c.ProjectID = uuid.Nil, to
		if f.TabID != nil {
			newTab := tabIDs[*f.TabID]
			c.TabID = &newTab
		}
		if err := db.Create(&c).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "copy filters failed")
		}
	}

	tasks, err := tx.Tasks.ListByProject(ctx, from)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		c := t
		c.ID, c.ProjectID = uuid.Nil, to
		if err := db.Create(&c).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "copy tasks failed")
		}
	}

	notes, err := tx.Additional.ListByProject(ctx, from, "")
	if err != nil {
		return err
	}
	for _, n := range notes {
		if err := tx.Additional.Append(ctx, to, n.Category, n.Content); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProject removes a project and every version below it, deepest
// first. Dependent rows go with their project through foreign key cascades.
func (s *projectService) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	logger.L().Info("delete project", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))

	var removed int
	err := s.gw.Transaction(ctx, func(tx *repository.Gateway) error {
		if _, err := tx.GetProject(ctx, projectID); err != nil {
			return err
		}
		order := []uuid.UUID{projectID}
		for i := 0; i < len(order); i++ {
			children, err := tx.Projects.ListChildren(ctx, order[i])
			if err != nil {
				return err
			}
			for _, c := range children {
				order = append(order, c.ID)
			}
		}
		for i := len(order) - 1; i >= 0; i-- {
			if err := tx.Projects.Delete(ctx, order[i]); err != nil {
				return err
			}
		}
		removed = len(order)
		return nil
	})
	if err != nil {
		if !appErr.IsCode(err, appErr.CodeNotFound) {
			logger.L().Error("delete project failed", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return err
	}

	logger.L().Info("project deleted", zap.String("project_id", projectID.String()), zap.Int("projects_removed", removed), zap.String("user_id", userID.String()))
	return nil
}

// ListHistory returns the audit log newest first with author emails.
func (s *projectService) ListHistory(ctx context.Context, projectID uuid.UUID) ([]HistoryEntry, error) {
	logger.L().Info("list history", zap.String("project_id", projectID.String()))
	if _, err := s.gw.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := s.gw.History.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, r := range rows {
		if !seen[r.ChangedBy] {
			seen[r.ChangedBy] = true
			ids = append(ids, r.ChangedBy)
		}
	}
	users, err := s.gw.Users.GetEmails(ctx, ids)
	if err != nil {
		return nil, err
	}
	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	out := make([]HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = HistoryEntry{ChangeHistory: r, ChangedByEmail: emails[r.ChangedBy]}
	}
	return out, nil
}
