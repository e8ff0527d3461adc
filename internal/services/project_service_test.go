package services_test

import (
	"context"
	"testing"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/internal/services"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func TestProjectService_CreateAndHistory(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	user := newUser(t, gw, "ana@example.com")
	svc := services.NewProjectService(gw, services.CopyDeep)

	p, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, 1, p.VersionNumber)
	assert.Nil(t, p.ParentProjectID)
	assert.Equal(t, user, p.CreatedBy)

	updated, err := svc.UpdateProject(ctx, p.ID, user, &services.UpdateProjectInput{Audience: strPtr("Execs")})
	require.NoError(t, err)
	assert.Equal(t, "Execs", updated.Audience)
	assert.Equal(t, "Sales", updated.Name)

	history, err := svc.ListHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	types := []string{history[0].ChangeType, history[1].ChangeType}
	assert.ElementsMatch(t, []string{models.ChangeCreate, models.ChangeUpdate}, types)
	for _, h := range history {
		assert.Equal(t, "ana@example.com", h.ChangedByEmail)
	}

	// An empty update writes nothing.
	_, err = svc.UpdateProject(ctx, p.ID, user, &services.UpdateProjectInput{})
	require.NoError(t, err)
	history, err = svc.ListHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	svc := services.NewProjectService(gw, services.CopyDeep)
	me, other := uuid.New(), uuid.New()

	mine, err := svc.CreateProject(ctx, me, &services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, other, &services.CreateProjectInput{Name: "Theirs"})
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, mine.ID, me)
	require.NoError(t, err)

	all, err := svc.ListProjects(ctx, me, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListProjects(ctx, me, &services.ProjectFilters{Mine: true})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Mine", own[0].Name)

	done, err := svc.ListProjects(ctx, other, &services.ProjectFilters{Status: models.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, mine.ID, done[0].ID)
}

func TestProjectService_MarkDoneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	svc := services.NewProjectService(gw, services.CopyDeep)
	user := uuid.New()
	p, err := svc.CreateProject(ctx, user, nil)
	require.NoError(t, err)

	done, err := svc.MarkDone(ctx, p.ID, user)
	require.NoError(t, err)
	assert.True(t, done.IsDone())

	again, err := svc.MarkDone(ctx, p.ID, uuid.New())
	require.NoError(t, err)
	assert.True(t, again.IsDone())
	assert.Equal(t, user, *again.UpdatedBy, "second call does not write")

	_, err = svc.MarkDone(ctx, uuid.New(), user)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestProjectService_EnhancementRequiresDone(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	svc := services.NewProjectService(gw, services.CopyDeep)
	user := uuid.New()
	p, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Sales"})
	require.NoError(t, err)

	_, err = svc.CreateEnhancement(ctx, p.ID, user)
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeFailedPrecondition))
	assert.EqualValues(t, 1, countRows(t, gw, &models.Project{}))
}

func TestProjectService_EnhancementVersioning(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	svc := services.NewProjectService(gw, services.CopyShallow)
	user := uuid.New()

	root, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Sales", Description: "d", Audience: "a"})
	require.NoError(t, err)
	_, err = svc.UpdateProject(ctx, root.ID, user, &services.UpdateProjectInput{HasAppendixTab: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, root.ID, user)
	require.NoError(t, err)

	e1, err := svc.CreateEnhancement(ctx, root.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 2, e1.VersionNumber)
	assert.Equal(t, root.ID, *e1.ParentProjectID)
	assert.Equal(t, "Sales - Enhancement v2", e1.Name)
	assert.Equal(t, models.StatusDraft, e1.Status)
	assert.Equal(t, "d", e1.Description)
	assert.True(t, e1.HasAppendixTab)

	_, err = svc.MarkDone(ctx, e1.ID, user)
	require.NoError(t, err)
	e2, err := svc.CreateEnhancement(ctx, e1.ID, user)
	require.NoError(t, err)
	assert.Equal(t, 3, e2.VersionNumber)
	assert.Equal(t, root.ID, *e2.ParentProjectID, "enhancements hang off the root")
	assert.Equal(t, "Sales - Enhancement v2 - Enhancement v3", e2.Name)

	versions, err := svc.ListVersions(ctx, e2.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{versions[0].VersionNumber, versions[1].VersionNumber, versions[2].VersionNumber})

	history, err := svc.ListHistory(ctx, e2.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ChangeVersion, history[0].ChangeType)
}

func boolPtr(b bool) *bool { return &b }

func seedRequirements(t *testing.T, ctx context.Context, gw *repository.Gateway, tasks services.TaskService, projectID uuid.UUID) {
	t.Helper()
	require.NoError(t, gw.UpsertFunctional(ctx, projectID, map[string]any{"metrics": datatypes.JSONSlice[string]{"Revenue"}}))
	require.NoError(t, gw.UpsertDesign(ctx, projectID, map[string]any{"fonts": datatypes.JSONSlice[string]{"Inter"}}))
	require.NoError(t, gw.ReplaceTabs(ctx, projectID, []string{"Summary", "Detail"}))
	require.NoError(t, gw.ReplaceGlobalFilters(ctx, projectID, []string{"Region"}))
	require.NoError(t, gw.AppendAdditional(ctx, projectID, models.CategoryFunctional, "nightly refresh"))
	_, err := tasks.AddTask(ctx, projectID, "wireframe")
	require.NoError(t, err)
	_, err = tasks.AddTask(ctx, projectID, "review")
	require.NoError(t, err)
}

func TestProjectService_EnhancementCopyModes(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []string{services.CopyDeep, services.CopyShallow} {
		t.Run(mode, func(t *testing.T) {
			gw := newGateway(t)
			svc := services.NewProjectService(gw, mode)
			tasks := services.NewTaskService(gw)
			user := uuid.New()

			root, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Ops"})
			require.NoError(t, err)
			seedRequirements(t, ctx, gw, tasks, root.ID)

			// one tab-scoped filter follows its tab
			tabs, err := gw.ListTabs(ctx, root.ID)
			require.NoError(t, err)
			require.NoError(t, gw.Filters.Create(ctx, &models.Filter{ProjectID: root.ID, TabID: &tabs[1].ID, Name: "Store"}))

			_, err = svc.MarkDone(ctx, root.ID, user)
			require.NoError(t, err)
			e, err := svc.CreateEnhancement(ctx, root.ID, user)
			require.NoError(t, err)

			fr, err := gw.GetFunctional(ctx, e.ID)
			require.NoError(t, err)
			newTabs, err := gw.ListTabs(ctx, e.ID)
			require.NoError(t, err)
			newTasks, err := tasks.ListTasks(ctx, e.ID)
			require.NoError(t, err)
			global, err := gw.ListGlobalFilters(ctx, e.ID)
			require.NoError(t, err)

			if mode == services.CopyShallow {
				assert.Nil(t, fr)
				assert.Empty(t, newTabs)
				assert.Empty(t, newTasks)
				assert.Empty(t, global)
				return
			}

			require.NotNil(t, fr)
			assert.Equal(t, []string{"Revenue"}, []string(fr.Metrics))
			require.Len(t, newTabs, 2)
			assert.Equal(t, "Detail", newTabs[1].Name)
			assert.NotEqual(t, tabs[1].ID, newTabs[1].ID)
			require.Len(t, newTasks, 2)
			assert.Equal(t, "wireframe", newTasks[0].Description)
			require.Len(t, global, 1)
			scoped, err := gw.Filters.ListByTab(ctx, newTabs[1].ID)
			require.NoError(t, err)
			require.Len(t, scoped, 1)
			assert.Equal(t, "Store", scoped[0].Name)
			notes, err := gw.Additional.ListByProject(ctx, e.ID, "")
			require.NoError(t, err)
			assert.Len(t, notes, 1)
			dr, err := gw.GetDesign(ctx, e.ID)
			require.NoError(t, err)
			require.NotNil(t, dr)
			assert.Equal(t, []string{"Inter"}, []string(dr.Fonts))

			// the source keeps its own rows
			srcTasks, err := tasks.ListTasks(ctx, root.ID)
			require.NoError(t, err)
			assert.Len(t, srcTasks, 2)
		})
	}
}

func TestProjectService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)
	svc := services.NewProjectService(gw, services.CopyDeep)
	tasks := services.NewTaskService(gw)
	user := uuid.New()

	root, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Ops"})
	require.NoError(t, err)
	seedRequirements(t, ctx, gw, tasks, root.ID)
	_, err = svc.MarkDone(ctx, root.ID, user)
	require.NoError(t, err)
	child, err := svc.CreateEnhancement(ctx, root.ID, user)
	require.NoError(t, err)

	// a deeper tree than enhancements produce
	grandchild := &models.Project{Name: "stray", VersionNumber: 9, ParentProjectID: &child.ID, CreatedBy: user}
	require.NoError(t, gw.Projects.Create(ctx, grandchild))

	unrelated, err := svc.CreateProject(ctx, user, &services.CreateProjectInput{Name: "Keep"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, root.ID, user))

	projects, err := gw.Projects.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, unrelated.ID, projects[0].ID)

	for _, model := range []any{
		&models.FunctionalRequirements{}, &models.DesignRequirements{}, &models.DashboardTab{},
		&models.Filter{}, &models.Task{}, &models.AdditionalRequirement{},
	} {
		assert.Zero(t, countRows(t, gw, model), "%T", model)
	}
	var history int64
	require.NoError(t, gw.DB().Model(&models.ChangeHistory{}).Where("project_id <> ?", unrelated.ID).Count(&history).Error)
	assert.Zero(t, history)

	err = svc.DeleteProject(ctx, root.ID, user)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
