package export

import (
	"testing"
	"time"

	"github.com/dashspec/engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderYAML(t *testing.T) {
	s := Snapshot{
		Project: models.Project{Name: "Weekly Sales", VersionNumber: 2, Status: models.StatusDraft, HasAppendixTab: true},
		Functional: &models.FunctionalRequirements{
			Metrics: []string{"Revenue", "Margin"},
		},
		Tabs:          []models.DashboardTab{{Name: "Summary"}, {Name: "Detail"}},
		GlobalFilters: []models.Filter{{Name: "Region", MultiSelect: true}},
		Tasks:         []models.Task{{Description: "wireframe", Completed: true}},
	}
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	out, err := RenderYAML(s, at)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "Weekly Sales", back["name"])
	assert.Equal(t, 2, back["version"])
	assert.Equal(t, true, back["appendix_tab"])
	assert.Equal(t, "2026-10-15T09:00:00Z", back["generated_at"])

	fn := back["functional"].(map[string]any)
	assert.Equal(t, []any{"Revenue", "Margin"}, fn["metrics"])
	assert.Equal(t, []any{}, fn["data_sources"])
	assert.Equal(t, []any{"Summary", "Detail"}, fn["tabs"])
	filters := fn["filters"].([]any)
	require.Len(t, filters, 1)
	assert.Equal(t, true, filters[0].(map[string]any)["multi_select"])

	design := back["design"].(map[string]any)
	assert.Equal(t, []any{}, design["fonts"])

	tasks := back["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "wireframe", tasks[0].(map[string]any)["description"])
}

func TestYAMLFilename(t *testing.T) {
	assert.Equal(t, "Weekly_Sales_v3.yaml", YAMLFilename("Weekly  Sales", 3))
	assert.Equal(t, "Untitled_v1.yaml", YAMLFilename(" ", 1))
}
