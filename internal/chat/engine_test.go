package chat_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/dashspec/engine/internal/chat"
	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/internal/testutil"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	ctx     context.Context
	gw      *repository.Gateway
	project *models.Project
	user    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), gw: repository.NewGateway(testutil.OpenDB(t)), user: uuid.New()}
	f.project = &models.Project{Status: models.StatusDraft, VersionNumber: 1, CreatedBy: f.user}
	require.NoError(t, f.gw.Projects.Create(f.ctx, f.project))
	return f
}

// seedFunctional fills every functional answer so a new session opens on the
// additional step.
func (f *fixture) seedFunctional(t *testing.T) {
	t.Helper()
	require.NoError(t, f.gw.UpdateProjectFields(f.ctx, f.project.ID, map[string]any{
		"name": "Sales", "description": "Weekly sales", "audience": "Execs",
	}))
	require.NoError(t, f.gw.UpsertFunctional(f.ctx, f.project.ID, map[string]any{
		"data_sources": datatypes.JSONSlice[string]{"CRM"},
		"metrics":      datatypes.JSONSlice[string]{"Revenue"},
	}))
	require.NoError(t, f.gw.ReplaceTabs(f.ctx, f.project.ID, []string{"Overview"}))
	require.NoError(t, f.gw.ReplaceGlobalFilters(f.ctx, f.project.ID, []string{"Region"}))
}

func (f *fixture) reload(t *testing.T) *models.Project {
	t.Helper()
	p, err := f.gw.GetProject(f.ctx, f.project.ID)
	require.NoError(t, err)
	return p
}

func submitAll(t *testing.T, e *chat.Engine, s chat.Session, inputs ...string) chat.Session {
	t.Helper()
	for _, in := range inputs {
		var err error
		s, _, err = e.Submit(context.Background(), s, in)
		require.NoError(t, err, "input %q", in)
	}
	return s
}

func TestFunctionalFlow_Walkthrough(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})

	s, prompt, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	assert.Equal(t, chat.StepName, s.Step)
	assert.Equal(t, chat.Prompt(chat.FlowFunctional, chat.StepName), prompt)

	s = submitAll(t, e, s,
		"Sales Overview",
		"Tracks weekly sales",
		"Executives",
		"CRM, ERP",
		"Revenue, Profit",
		"Summary, Detail",
		"Region, Quarter",
		"yes",
		"nope",
	)
	assert.Equal(t, chat.StepAdditional, s.Step)
	assert.Equal(t, []string{"Summary", "Detail"}, s.Data.Tabs)

	p := f.reload(t)
	assert.Equal(t, "Sales Overview", p.Name)
	assert.Equal(t, "Executives", p.Audience)
	assert.True(t, p.HasAppendixTab)
	assert.False(t, p.HasMetricLogicTab)
	require.NotNil(t, p.UpdatedBy)
	assert.Equal(t, f.user, *p.UpdatedBy)

	fr, err := f.gw.GetFunctional(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CRM", "ERP"}, []string(fr.DataSources))
	assert.Equal(t, []string{"Revenue", "Profit"}, []string(fr.Metrics))

	filters, err := f.gw.ListGlobalFilters(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, filters, 2)

	s, _, err = e.Submit(f.ctx, s, "DONE")
	require.NoError(t, err)
	assert.True(t, s.Done())
}

func TestStart_ResumesAtFirstGap(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})

	// Later answers exist but description does not.
	require.NoError(t, f.gw.UpdateProjectFields(f.ctx, f.project.ID, map[string]any{"name": "Ops", "audience": "Leads"}))
	require.NoError(t, f.gw.UpsertFunctional(f.ctx, f.project.ID, map[string]any{"metrics": datatypes.JSONSlice[string]{"Uptime"}}))

	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	assert.Equal(t, chat.StepDescription, s.Step)
	assert.Equal(t, "Ops", s.Data.Name)
	assert.Equal(t, []string{"Uptime"}, s.Data.Metrics)

	s = submitAll(t, e, s, "Service health")
	assert.Equal(t, chat.StepAudience, s.Step, "submit advances linearly, not to the next gap")

	s, _, err = e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	assert.Equal(t, chat.StepDataSources, s.Step)

	f.seedFunctional(t)
	s, _, err = e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	assert.Equal(t, chat.StepAdditional, s.Step)
}

func TestStart_DesignResume(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})

	require.NoError(t, f.gw.UpsertDesign(f.ctx, f.project.ID, map[string]any{
		"dashboard_size": "1920x1080",
		"fonts":          datatypes.JSONSlice[string]{"Inter"},
	}))
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowDesign)
	require.NoError(t, err)
	assert.Equal(t, chat.StepColorPalette, s.Step)

	require.NoError(t, f.gw.UpsertDesign(f.ctx, f.project.ID, map[string]any{
		"color_palette": datatypes.JSONSlice[string]{"Navy"},
		"logo_location": "top left",
	}))
	s, _, err = e.Start(f.ctx, f.project.ID, f.user, chat.FlowDesign)
	require.NoError(t, err)
	assert.Equal(t, chat.StepAdditional, s.Step)

	require.NoError(t, f.gw.UpsertDesign(f.ctx, f.project.ID, map[string]any{"additional_requirements": "dark mode"}))
	s, _, err = e.Start(f.ctx, f.project.ID, f.user, chat.FlowDesign)
	require.NoError(t, err)
	assert.Equal(t, chat.StepComplete, s.Step)
}

func TestStart_UnknownProject(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	_, _, err := e.Start(f.ctx, uuid.New(), f.user, chat.FlowFunctional)
	assert.Error(t, err)
}

func TestSubmit_EmptyInputReprompts(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	next, prompt, err := e.Submit(f.ctx, s, "   ")
	require.NoError(t, err)
	assert.Equal(t, chat.StepName, next.Step)
	assert.Equal(t, chat.Prompt(chat.FlowFunctional, chat.StepName), prompt)
	assert.Nil(t, f.reload(t).UpdatedBy, "no write for blank input")
}

func TestSubmit_FiltersNoneSentinel(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	require.NoError(t, f.gw.ReplaceGlobalFilters(f.ctx, f.project.ID, nil))

	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	require.Equal(t, chat.StepFilters, s.Step)

	same, _, err := e.Submit(f.ctx, s, "")
	require.NoError(t, err)
	assert.Equal(t, chat.StepFilters, same.Step)

	s, _, err = e.Submit(f.ctx, s, "NoNe")
	require.NoError(t, err)
	assert.Equal(t, chat.StepAppendix, s.Step)
	assert.Empty(t, s.Data.Filters)

	filters, err := f.gw.ListGlobalFilters(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestSubmit_SingleTabIsANameNotACount(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	require.NoError(t, f.gw.ReplaceTabs(f.ctx, f.project.ID, nil))

	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)
	require.Equal(t, chat.StepTabs, s.Step)

	s = submitAll(t, e, s, "3")
	tabs, err := f.gw.ListTabs(f.ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, "3", tabs[0].Name)
	assert.Equal(t, chat.StepFilters, s.Step)
}

func TestTail_EditCommandPrecedence(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	for _, in := range []string{
		"change metrics to Revenue, Profit",
		"keep the name; change metrics to Revenue, Profit",
	} {
		s, msg, err := e.Submit(f.ctx, s, in)
		require.NoError(t, err)
		assert.Equal(t, chat.StepAdditional, s.Step)
		assert.Contains(t, msg, "metrics")
		assert.Equal(t, []string{"Revenue", "Profit"}, s.Data.Metrics)

		fr, err := f.gw.GetFunctional(f.ctx, f.project.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Revenue", "Profit"}, []string(fr.Metrics))
		assert.Equal(t, []string{"CRM"}, []string(fr.DataSources))
		p := f.reload(t)
		assert.Equal(t, "Sales", p.Name)
		assert.Equal(t, "Weekly sales", p.Description)
	}
}

func TestTail_EditsEachField(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	s = submitAll(t, e, s,
		"update audience: Finance team",
		"change data sources to Snowflake, Sheets",
		"change tabs to Trends",
		"change filters to none",
		"rename it please, name to Finance Board",
	)

	p := f.reload(t)
	assert.Equal(t, "Finance team", p.Audience)
	assert.Equal(t, "Finance Board", p.Name)
	fr, err := f.gw.GetFunctional(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Snowflake", "Sheets"}, []string(fr.DataSources))
	tabs, err := f.gw.ListTabs(f.ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, "Trends", tabs[0].Name)
	filters, err := f.gw.ListGlobalFilters(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, filters)
	assert.Equal(t, chat.StepAdditional, s.Step)
}

// seedDesign fills every design answer so a new design session opens on the
// additional step.
func (f *fixture) seedDesign(t *testing.T) {
	t.Helper()
	require.NoError(t, f.gw.UpsertDesign(f.ctx, f.project.ID, map[string]any{
		"dashboard_size": "1920x1080",
		"color_palette":  datatypes.JSONSlice[string]{"Navy"},
		"fonts":          datatypes.JSONSlice[string]{"Inter"},
		"logo_location":  "top left",
	}))
}

// stored is everything an edit command could touch.
type stored struct {
	Name, Description, Audience string
	Appendix, MetricLogic       bool
	DataSources, Metrics        []string
	Tabs, Filters               []string
	DashboardSize, Logo         string
	Palette, Fonts              []string
}

func (f *fixture) stored(t *testing.T) stored {
	t.Helper()
	p := f.reload(t)
	st := stored{
		Name: p.Name, Description: p.Description, Audience: p.Audience,
		Appendix: p.HasAppendixTab, MetricLogic: p.HasMetricLogicTab,
	}
	if fr, err := f.gw.GetFunctional(f.ctx, f.project.ID); assert.NoError(t, err) && fr != nil {
		st.DataSources, st.Metrics = []string(fr.DataSources), []string(fr.Metrics)
	}
	tabs, err := f.gw.ListTabs(f.ctx, f.project.ID)
	require.NoError(t, err)
	for _, tab := range tabs {
		st.Tabs = append(st.Tabs, tab.Name)
	}
	filters, err := f.gw.ListGlobalFilters(f.ctx, f.project.ID)
	require.NoError(t, err)
	for _, fl := range filters {
		st.Filters = append(st.Filters, fl.Name)
	}
	if dr, err := f.gw.GetDesign(f.ctx, f.project.ID); assert.NoError(t, err) && dr != nil {
		st.DashboardSize, st.Logo = dr.DashboardSize, dr.LogoLocation
		st.Palette, st.Fonts = []string(dr.ColorPalette), []string(dr.Fonts)
	}
	return st
}

func TestTail_UnrecognisedEdit(t *testing.T) {
	cases := []struct {
		flow  chat.Flow
		input string
	}{
		{chat.FlowFunctional, "change everything to blue"},
		{chat.FlowFunctional, "change metrics to"},
		{chat.FlowFunctional, "change name to "},
		{chat.FlowFunctional, "update tabs to"},
		{chat.FlowFunctional, "change filters to  "},
		{chat.FlowFunctional, "change metric logic to"},
		{chat.FlowDesign, "change fonts to"},
		{chat.FlowDesign, "update logo to "},
		{chat.FlowDesign, "change palette to"},
	}
	for _, tc := range cases {
		t.Run(string(tc.flow)+"/"+tc.input, func(t *testing.T) {
			f := newFixture(t)
			e := chat.NewEngine(f.gw, chat.Options{})
			f.seedFunctional(t)
			f.seedDesign(t)
			s, _, err := e.Start(f.ctx, f.project.ID, f.user, tc.flow)
			require.NoError(t, err)
			require.Equal(t, chat.StepAdditional, s.Step)
			before := f.stored(t)

			next, msg, err := e.Submit(f.ctx, s, tc.input)
			require.NoError(t, err)
			assert.Equal(t, s, next)
			assert.Contains(t, msg, "Editable fields")
			assert.Equal(t, before, f.stored(t))
		})
	}
}

func TestTail_MetricLogicIsNotMetrics(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	s, msg, err := e.Submit(f.ctx, s, "change metric logic to yes")
	require.NoError(t, err)
	assert.Contains(t, msg, "metric logic tab")
	assert.True(t, s.Data.MetricLogic)

	s = submitAll(t, e, s, "update appendix tab to yes")
	assert.True(t, s.Data.Appendix)

	st := f.stored(t)
	assert.True(t, st.MetricLogic)
	assert.True(t, st.Appendix)
	assert.Equal(t, []string{"Revenue"}, st.Metrics)
}

func TestTail_HelpAndNotes(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	f.seedFunctional(t)
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	_, msg, err := e.Submit(f.ctx, s, "?")
	require.NoError(t, err)
	assert.Equal(t, chat.Help(chat.FlowFunctional), msg)

	s = submitAll(t, e, s, "Refresh nightly", "Export to PDF")
	notes, err := f.gw.Additional.ListByProject(f.ctx, f.project.ID, models.CategoryFunctional)
	require.NoError(t, err)
	// "Export to PDF" contains " to " and no field keyword: it is read as a
	// failed edit, not a note.
	require.Len(t, notes, 1)
	assert.Equal(t, "Refresh nightly", notes[0].Content)
	assert.Equal(t, chat.StepAdditional, s.Step)
}

func TestTail_PrefixModeKeepsNotes(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{EditMode: chat.EditPrefix})
	f.seedFunctional(t)
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	submitAll(t, e, s, "Export to PDF")
	notes, err := f.gw.Additional.ListByProject(f.ctx, f.project.ID, models.CategoryFunctional)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Export to PDF", notes[0].Content)
}

func TestDesignFlow(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(f.gw, chat.Options{})
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowDesign)
	require.NoError(t, err)
	require.Equal(t, chat.StepDashboardSize, s.Step)

	require.NoError(t, f.gw.UpsertDesign(f.ctx, f.project.ID, map[string]any{"logo_url": "https://cdn.example.com/logo.png"}))

	s = submitAll(t, e, s, "1920x1080", "Navy, Gold", "Inter", "None")
	assert.Equal(t, chat.StepAdditional, s.Step)

	dr, err := f.gw.GetDesign(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, "1920x1080", dr.DashboardSize)
	assert.Equal(t, []string{"Navy", "Gold"}, []string(dr.ColorPalette))
	assert.Equal(t, "none", dr.LogoLocation)
	assert.Empty(t, dr.LogoURL)

	s, _, err = e.Submit(f.ctx, s, "Use dark mode")
	require.NoError(t, err)
	assert.Equal(t, chat.StepComplete, s.Step)

	s, msg, err := e.Submit(f.ctx, s, "Use light mode")
	require.NoError(t, err)
	assert.Equal(t, chat.StepComplete, s.Step)
	assert.Contains(t, msg, "updated")

	s, _, err = e.Submit(f.ctx, s, "change colors to Black, White")
	require.NoError(t, err)
	assert.Equal(t, chat.StepComplete, s.Step)

	// design flow has no done command; it is stored as a note
	s = submitAll(t, e, s, "done")

	dr, err = f.gw.GetDesign(f.ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", dr.AdditionalRequirements)
	assert.Equal(t, []string{"Black", "White"}, []string(dr.ColorPalette))

	notes, err := f.gw.Additional.ListByProject(f.ctx, f.project.ID, models.CategoryDesign)
	require.NoError(t, err)
	assert.Len(t, notes, 3)
}

type failingStore struct {
	*repository.Gateway
}

func (failingStore) UpdateProjectFields(context.Context, uuid.UUID, map[string]any) error {
	return errors.New("store offline")
}

func TestSubmit_PersistenceFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	e := chat.NewEngine(failingStore{f.gw}, chat.Options{})
	s, _, err := e.Start(f.ctx, f.project.ID, f.user, chat.FlowFunctional)
	require.NoError(t, err)

	next, _, err := e.Submit(f.ctx, s, "Ops")
	require.Error(t, err)
	assert.Equal(t, s, next)
}
