package chat

import (
	"context"
	"strings"

	"gorm.io/datatypes"
)

// value is a parsed answer. Which member is meaningful depends on the field.
type value struct {
	text    string
	list    []string
	flag    bool
	cleared bool
}

func (v value) String() string {
	switch {
	case v.list != nil:
		if len(v.list) == 0 {
			return "none"
		}
		return strings.Join(v.list, ", ")
	case v.text != "":
		return v.text
	case v.flag:
		return "yes"
	}
	return "no"
}

// field ties a step to its parsing rule, its persisted column and its slot in
// Answers. The same table backs question steps and the change interpreter.
type field struct {
	step  Step
	label string
	// parse returns ok=false when the answer is empty and must be asked again.
	parse  func(input string) (value, bool)
	save   func(ctx context.Context, st Store, s Session, v value) error
	apply  func(a *Answers, v value)
	filled func(a *Answers) bool
}

func jsonList(list []string) datatypes.JSONSlice[string] {
	if list == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](list)
}

func parseText(input string) (value, bool) {
	t := strings.TrimSpace(input)
	return value{text: t}, t != ""
}

func parseListValue(input string) (value, bool) {
	l := ParseList(input)
	return value{list: l}, len(l) > 0
}

func projectText(step Step, label, column string, slot func(*Answers) *string) field {
	return field{
		step:  step,
		label: label,
		parse: parseText,
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.UpdateProjectFields(ctx, s.ProjectID, map[string]any{column: v.text, "updated_by": s.UserID})
		},
		apply:  func(a *Answers, v value) { *slot(a) = v.text },
		filled: func(a *Answers) bool { return *slot(a) != "" },
	}
}

func projectFlag(step Step, label, column string, slot func(*Answers) *bool) field {
	return field{
		step:  step,
		label: label,
		parse: func(input string) (value, bool) {
			return value{flag: ParseBool(input)}, strings.TrimSpace(input) != ""
		},
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.UpdateProjectFields(ctx, s.ProjectID, map[string]any{column: v.flag, "updated_by": s.UserID})
		},
		apply: func(a *Answers, v value) { *slot(a) = v.flag },
		// Booleans always hold a value once the project exists.
		filled: func(*Answers) bool { return true },
	}
}

func functionalList(step Step, label, column string, slot func(*Answers) *[]string) field {
	return field{
		step:  step,
		label: label,
		parse: parseListValue,
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.UpsertFunctional(ctx, s.ProjectID, map[string]any{column: jsonList(v.list)})
		},
		apply:  func(a *Answers, v value) { *slot(a) = v.list },
		filled: func(a *Answers) bool { return len(*slot(a)) > 0 },
	}
}

func designText(step Step, label, column string, slot func(*Answers) *string) field {
	return field{
		step:  step,
		label: label,
		parse: parseText,
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.UpsertDesign(ctx, s.ProjectID, map[string]any{column: v.text})
		},
		apply:  func(a *Answers, v value) { *slot(a) = v.text },
		filled: func(a *Answers) bool { return *slot(a) != "" },
	}
}

func designList(step Step, label, column string, slot func(*Answers) *[]string) field {
	return field{
		step:  step,
		label: label,
		parse: parseListValue,
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.UpsertDesign(ctx, s.ProjectID, map[string]any{column: jsonList(v.list)})
		},
		apply:  func(a *Answers, v value) { *slot(a) = v.list },
		filled: func(a *Answers) bool { return len(*slot(a)) > 0 },
	}
}

var (
	nameField = projectText(StepName, "name", "name",
		func(a *Answers) *string { return &a.Name })
	descriptionField = projectText(StepDescription, "description", "description",
		func(a *Answers) *string { return &a.Description })
	audienceField = projectText(StepAudience, "audience", "audience",
		func(a *Answers) *string { return &a.Audience })
	dataSourcesField = functionalList(StepDataSources, "data sources", "data_sources",
		func(a *Answers) *[]string { return &a.DataSources })
	metricsField = functionalList(StepMetrics, "metrics", "metrics",
		func(a *Answers) *[]string { return &a.Metrics })

	tabsField = field{
		step:  StepTabs,
		label: "tabs",
		parse: func(input string) (value, bool) {
			l := ParseTabs(input)
			return value{list: l}, len(l) > 0
		},
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.ReplaceTabs(ctx, s.ProjectID, v.list)
		},
		apply:  func(a *Answers, v value) { a.Tabs = v.list },
		filled: func(a *Answers) bool { return len(a.Tabs) > 0 },
	}

	// "none" is a real answer that stores no filters; only blank input re-asks.
	filtersField = field{
		step:  StepFilters,
		label: "filters",
		parse: func(input string) (value, bool) {
			l := ParseFilters(input)
			return value{list: l}, len(l) > 0 || strings.EqualFold(strings.TrimSpace(input), "none")
		},
		save: func(ctx context.Context, st Store, s Session, v value) error {
			return st.ReplaceGlobalFilters(ctx, s.ProjectID, v.list)
		},
		apply:  func(a *Answers, v value) { a.Filters = v.list },
		filled: func(a *Answers) bool { return len(a.Filters) > 0 },
	}

	appendixField = projectFlag(StepAppendix, "appendix tab", "has_appendix_tab",
		func(a *Answers) *bool { return &a.Appendix })
	metricLogicField = projectFlag(StepMetricLogic, "metric logic tab", "has_metric_logic_tab",
		func(a *Answers) *bool { return &a.MetricLogic })

	dashboardSizeField = designText(StepDashboardSize, "dashboard size", "dashboard_size",
		func(a *Answers) *string { return &a.DashboardSize })
	colorPaletteField = designList(StepColorPalette, "color palette", "color_palette",
		func(a *Answers) *[]string { return &a.ColorPalette })
	fontsField = designList(StepFonts, "fonts", "fonts",
		func(a *Answers) *[]string { return &a.Fonts })

	logoField = field{
		step:  StepLogo,
		label: "logo",
		parse: func(input string) (value, bool) {
			loc, cleared := ParseLogo(input)
			return value{text: loc, cleared: cleared}, loc != ""
		},
		save: func(ctx context.Context, st Store, s Session, v value) error {
			patch := map[string]any{"logo_location": v.text}
			if v.cleared {
				patch["logo_url"] = ""
			}
			return st.UpsertDesign(ctx, s.ProjectID, patch)
		},
		apply: func(a *Answers, v value) {
			a.LogoLocation = v.text
			if v.cleared {
				a.LogoURL = ""
			}
		},
		filled: func(a *Answers) bool { return a.LogoLocation != "" || a.LogoURL != "" },
	}
)

var functionalFields = []field{
	nameField,
	descriptionField,
	audienceField,
	dataSourcesField,
	metricsField,
	tabsField,
	filtersField,
	appendixField,
	metricLogicField,
}

var designFields = []field{
	dashboardSizeField,
	colorPaletteField,
	fontsField,
	logoField,
}
