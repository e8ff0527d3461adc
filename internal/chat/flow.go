package chat

import (
	appErr "github.com/dashspec/engine/pkg/errors"
)

// Flow names one of the two questionnaires.
type Flow string

const (
	FlowFunctional Flow = "functional"
	FlowDesign     Flow = "design"
)

// ParseFlow validates a flow name coming from a route or flag.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case FlowFunctional, FlowDesign:
		return Flow(s), nil
	}
	return "", appErr.Newf(appErr.CodeInvalid, "unknown flow %q", s)
}

// Step is a position in a flow.
type Step string

const (
	StepName          Step = "name"
	StepDescription   Step = "description"
	StepAudience      Step = "audience"
	StepDataSources   Step = "data_sources"
	StepMetrics       Step = "metrics"
	StepTabs          Step = "tabs"
	StepFilters       Step = "filters"
	StepAppendix      Step = "appendix"
	StepMetricLogic   Step = "metric_logic"
	StepDashboardSize Step = "dashboard_size"
	StepColorPalette  Step = "color_palette"
	StepFonts         Step = "fonts"
	StepLogo          Step = "logo"
	StepAdditional    Step = "additional"
	StepComplete      Step = "complete"
)

// Steps returns the ordered step list of a flow, tail steps included.
func (f Flow) Steps() []Step {
	fields := f.fields()
	out := make([]Step, 0, len(fields)+2)
	for _, fd := range fields {
		out = append(out, fd.step)
	}
	return append(out, StepAdditional, StepComplete)
}

func (f Flow) fields() []field {
	if f == FlowDesign {
		return designFields
	}
	return functionalFields
}

func (f Flow) field(step Step) (field, bool) {
	for _, fd := range f.fields() {
		if fd.step == step {
			return fd, true
		}
	}
	return field{}, false
}

// next returns the step after s; question steps fall through to additional.
func (f Flow) next(s Step) Step {
	fields := f.fields()
	for i, fd := range fields {
		if fd.step != s {
			continue
		}
		if i+1 < len(fields) {
			return fields[i+1].step
		}
		return StepAdditional
	}
	return s
}

func (f Flow) editRules() []editRule {
	if f == FlowDesign {
		return designEdits
	}
	return functionalEdits
}

var prompts = map[Flow]map[Step]string{
	FlowFunctional: {
		StepName:        "What should this dashboard be called?",
		StepDescription: "Describe what the dashboard is for in a sentence or two.",
		StepAudience:    "Who will use this dashboard?",
		StepDataSources: "Which data sources feed it? Separate multiple sources with commas.",
		StepMetrics:     "Which metrics should it show? Separate them with commas.",
		StepTabs:        "Which tabs should the dashboard have? List names separated by commas, or give one name for a single-page dashboard.",
		StepFilters:     "Which global filters apply across every tab? Separate them with commas, or answer \"none\".",
		StepAppendix:    "Should the dashboard include an appendix tab? (yes/no)",
		StepMetricLogic: "Should it include a metric logic tab that explains each calculation? (yes/no)",
		StepAdditional:  "Anything else? Add a note, edit an answer (for example \"change metrics to Revenue, Profit\"), type \"help\", or \"done\" to finish.",
		StepComplete:    "Functional requirements are complete. You can still add notes or edit answers.",
	},
	FlowDesign: {
		StepDashboardSize: "What size should the dashboard be? (for example 1920x1080 or \"laptop\")",
		StepColorPalette:  "Which colors make up the palette? Separate them with commas.",
		StepFonts:         "Which fonts should it use? Separate them with commas.",
		StepLogo:          "Where should the logo sit? Describe the placement, or answer \"none\".",
		StepAdditional:    "Any other design requirements? Describe them, edit an answer (for example \"change fonts to Inter, Roboto\"), or type \"help\".",
		StepComplete:      "Design requirements are saved. A new note replaces the additional requirements; edits still work.",
	},
}

// Prompt returns the fixed question text of a step.
func Prompt(f Flow, s Step) string {
	return prompts[f][s]
}

const functionalHelp = `Commands:
  done                      finish the functional requirements
  help, ?                   show this message
  change <field> to <value> edit an earlier answer
Editable fields: name, description, audience, data sources, metric logic tab, appendix tab, metrics, tabs, filters.
Anything else is saved as an additional requirement.`

const designHelp = `Commands:
  help, ?                   show this message
  change <field> to <value> edit an earlier answer
Editable fields: dashboard size, color palette, fonts, logo.
Anything else is saved as the additional design requirements.`

// Help returns the help text of a flow.
func Help(f Flow) string {
	if f == FlowDesign {
		return designHelp
	}
	return functionalHelp
}
