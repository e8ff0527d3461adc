package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type yamlFilter struct {
	Name         string `yaml:"name"`
	DataSource   string `yaml:"data_source,omitempty"`
	MultiSelect  bool   `yaml:"multi_select,omitempty"`
	DefaultValue string `yaml:"default_value,omitempty"`
}

type yamlTask struct {
	Description string `yaml:"description"`
	Completed   bool   `yaml:"completed"`
}

type yamlDoc struct {
	Name           string `yaml:"name"`
	Version        int    `yaml:"version"`
	Status         string `yaml:"status"`
	Description    string `yaml:"description,omitempty"`
	Audience       string `yaml:"audience,omitempty"`
	AppendixTab    bool   `yaml:"appendix_tab"`
	MetricLogicTab bool   `yaml:"metric_logic_tab"`
	Functional     struct {
		DataSources []string     `yaml:"data_sources"`
		Metrics     []string     `yaml:"metrics"`
		Tabs        []string     `yaml:"tabs"`
		Filters     []yamlFilter `yaml:"filters"`
		Notes       []string     `yaml:"notes,omitempty"`
	} `yaml:"functional"`
	Design struct {
		DashboardSize string   `yaml:"dashboard_size,omitempty"`
		ColorPalette  []string `yaml:"color_palette"`
		Fonts         []string `yaml:"fonts"`
		LogoURL       string   `yaml:"logo_url,omitempty"`
		LogoLocation  string   `yaml:"logo_location,omitempty"`
		Additional    string   `yaml:"additional,omitempty"`
	} `yaml:"design"`
	Tasks       []yamlTask `yaml:"tasks"`
	GeneratedAt string     `yaml:"generated_at"`
}

// RenderYAML is the machine readable counterpart of Render. It carries the
// same content without Markdown placeholders.
func RenderYAML(s Snapshot, generatedAt time.Time) ([]byte, error) {
	p := s.Project
	d := yamlDoc{
		Name:           p.Name,
		Version:        p.VersionNumber,
		Status:         p.Status,
		Description:    p.Description,
		Audience:       p.Audience,
		AppendixTab:    p.HasAppendixTab,
		MetricLogicTab: p.HasMetricLogicTab,
		Tasks:          []yamlTask{},
		GeneratedAt:    generatedAt.UTC().Format(time.RFC3339),
	}

	d.Functional.DataSources, d.Functional.Metrics = []string{}, []string{}
	if f := s.Functional; f != nil {
		d.Functional.DataSources = append(d.Functional.DataSources, f.DataSources...)
		d.Functional.Metrics = append(d.Functional.Metrics, f.Metrics...)
	}
	d.Functional.Tabs = make([]string, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		d.Functional.Tabs = append(d.Functional.Tabs, t.Name)
	}
	d.Functional.Filters = make([]yamlFilter, 0, len(s.GlobalFilters))
	for _, f := range s.GlobalFilters {
		d.Functional.Filters = append(d.Functional.Filters, yamlFilter{
			Name:         f.Name,
			DataSource:   f.DataSource,
			MultiSelect:  f.MultiSelect,
			DefaultValue: f.DefaultValue,
		})
	}
	for _, a := range s.Additional {
		d.Functional.Notes = append(d.Functional.Notes, a.Content)
	}

	d.Design.ColorPalette, d.Design.Fonts = []string{}, []string{}
	if ds := s.Design; ds != nil {
		d.Design.DashboardSize = ds.DashboardSize
		d.Design.ColorPalette = append(d.Design.ColorPalette, ds.ColorPalette...)
		d.Design.Fonts = append(d.Design.Fonts, ds.Fonts...)
		d.Design.LogoURL = ds.LogoURL
		d.Design.LogoLocation = ds.LogoLocation
		d.Design.Additional = ds.AdditionalRequirements
	}

	for _, t := range s.Tasks {
		d.Tasks = append(d.Tasks, yamlTask{Description: t.Description, Completed: t.Completed})
	}

	out, err := yaml.Marshal(&d)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

// YAMLFilename mirrors Filename with a .yaml extension.
func YAMLFilename(name string, version int) string {
	return strings.TrimSuffix(Filename(name, version), ".md") + ".yaml"
}
