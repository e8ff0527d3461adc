package export

import (
	"strings"
	"testing"
	"time"

	"github.com/dashspec/engine/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func fullSnapshot() Snapshot {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	return Snapshot{
		Project: models.Project{
			ID:                id,
			Name:              "Sales  Overview",
			Description:       "Weekly sales health",
			Audience:          "Executives",
			Status:            models.StatusDone,
			VersionNumber:     2,
			HasAppendixTab:    true,
			HasMetricLogicTab: false,
			UpdatedAt:         time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
		},
		Functional: &models.FunctionalRequirements{
			DataSources: datatypes.JSONSlice[string]{"CRM", "ERP"},
			Metrics:     datatypes.JSONSlice[string]{"Revenue"},
		},
		Tabs: []models.DashboardTab{{Name: "Summary"}, {Name: "Detail"}},
		GlobalFilters: []models.Filter{
			{Name: "Region", DataSource: "CRM", MultiSelect: true, DefaultValue: "All"},
			{Name: "Quarter"},
		},
		Additional: []models.AdditionalRequirement{
			{Category: models.CategoryFunctional, Content: "Refresh nightly"},
			{Category: models.CategoryDesign, Content: "Dark mode"},
		},
		Design: &models.DesignRequirements{
			DashboardSize:          "1920x1080",
			ColorPalette:           datatypes.JSONSlice[string]{"Navy", "Gold"},
			Fonts:                  datatypes.JSONSlice[string]{"Inter"},
			LogoLocation:           "top left",
			LogoURL:                "https://cdn.example.com/logo.png",
			AdditionalRequirements: "Dark mode",
		},
		Tasks: []models.Task{
			{Description: "Draft wireframe", Completed: true},
			{Description: "Review with finance"},
		},
	}
}

func TestRender_Sections(t *testing.T) {
	out := Render(fullSnapshot(), time.Date(2024, 5, 7, 8, 30, 0, 0, time.UTC))

	order := []string{
		"# Sales  Overview",
		"**Version:** 2",
		"**Status:** Done",
		"**Last updated:** 2024-05-06",
		"## Overview",
		"**Description:** Weekly sales health",
		"## Functional Requirements",
		"### Data Sources",
		"- CRM\n- ERP",
		"### Metrics",
		"### Dashboard Tabs",
		"1. Summary\n2. Detail",
		"### Filters",
		"| Region | CRM | Yes | All |",
		"| Quarter | - | No | - |",
		"### Additional Requirements",
		"- Refresh nightly",
		"### Appendix",
		"## Design Requirements",
		"**Color palette:** Navy, Gold",
		"**Logo:** top left (https://cdn.example.com/logo.png)",
		"## Tasks",
		"1. [x] Draft wireframe\n2. [ ] Review with finance",
		"_Generated 2024-05-07T08:30:00Z_",
	}
	pos := 0
	for _, want := range order {
		i := strings.Index(out[pos:], want)
		require.GreaterOrEqual(t, i, 0, "missing or out of order: %q", want)
		pos += i + len(want)
	}
	assert.NotContains(t, out, "### Metric Logic")
	assert.NotContains(t, out, "- Dark mode", "design notes are not functional notes")
}

func TestRender_Placeholders(t *testing.T) {
	out := Render(Snapshot{Project: models.Project{VersionNumber: 1, Status: models.StatusDraft}}, time.Now())
	assert.Contains(t, out, "# Untitled dashboard")
	assert.Contains(t, out, "**Status:** Draft")
	assert.Contains(t, out, "**Description:** _Not specified_")
	assert.Contains(t, out, "_No global filters_")
	assert.Contains(t, out, "## Design Requirements\n\n_Not specified_")
	assert.Contains(t, out, "_No tasks yet_")
}

func TestRender_Deterministic(t *testing.T) {
	s := fullSnapshot()
	a := Render(s, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := Render(s, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	stripFooter := func(doc string) string {
		lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
		return strings.Join(lines[:len(lines)-1], "\n")
	}
	assert.NotEqual(t, a, b)
	assert.Equal(t, stripFooter(a), stripFooter(b))
	assert.Equal(t, a, Render(s, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Sales_Overview_v2.md", Filename("Sales  Overview", 2))
	assert.Equal(t, "Ops_Board_Q3_v1.md", Filename("Ops\tBoard \n Q3", 1))
	assert.Equal(t, "Untitled_v1.md", Filename("  ", 1))
}

func TestNewDocument(t *testing.T) {
	s := fullSnapshot()
	doc := NewDocument(s, time.Date(2024, 5, 7, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, s.Project.ID, doc.ProjectID)
	assert.Equal(t, "Sales_Overview_v2.md", doc.Filename)
	assert.Len(t, doc.ETag, 64)
	assert.Equal(t, doc.ETag, NewDocument(s, doc.GeneratedAt).ETag)
}
