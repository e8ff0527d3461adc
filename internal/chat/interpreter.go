package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// editRule maps a field keyword to the field it edits. Rules are evaluated in
// table order.
type editRule struct {
	field   field
	keyword *regexp.Regexp
	to      *regexp.Regexp
	lead    *regexp.Regexp
}

func rule(f field, keyword string) editRule {
	return editRule{
		field:   f,
		keyword: regexp.MustCompile(`(?i)\b(?:` + keyword + `)\b`),
		to:      regexp.MustCompile(`(?is)\b(?:` + keyword + `)\s+to(?:\s+(.*))?$`),
		lead:    regexp.MustCompile(`(?is)^(?:change|update)\s+(?:the\s+)?(?:` + keyword + `)\b(.*)$`),
	}
}

var functionalEdits = []editRule{
	rule(nameField, `name`),
	rule(descriptionField, `description`),
	rule(audienceField, `audience`),
	rule(dataSourcesField, `data[\s_-]?sources?`),
	// the flag tabs go ahead of metrics and tabs, whose keywords they contain
	rule(metricLogicField, `metric[\s_-]?logic(?:\s+tab)?`),
	rule(appendixField, `appendix(?:\s+tab)?`),
	rule(metricsField, `metrics?`),
	rule(tabsField, `tabs?`),
	rule(filtersField, `filters?`),
}

var designEdits = []editRule{
	rule(dashboardSizeField, `(?:dashboard\s+)?size`),
	rule(colorPaletteField, `colou?r\s+palette|palette|colou?rs?`),
	rule(fontsField, `fonts?`),
	rule(logoField, `logo(?:\s+location)?`),
}

// match picks the rule an edit command targets. A rule whose keyword is
// directly followed by "to" wins; otherwise the first rule whose keyword
// occurs at all. Either way the table order breaks ties.
func match(rules []editRule, input string) (editRule, bool) {
	for _, r := range rules {
		if r.to.MatchString(input) {
			return r, true
		}
	}
	for _, r := range rules {
		if r.keyword.MatchString(input) {
			return r, true
		}
	}
	return editRule{}, false
}

// extract pulls the new value out of an edit command. A keyword followed by
// "to" settles the value even when nothing comes after it.
func (r editRule) extract(input string) string {
	var raw string
	if m := r.to.FindStringSubmatch(input); m != nil {
		raw = m[1]
	} else if m := r.lead.FindStringSubmatch(strings.TrimSpace(input)); m != nil {
		raw = m[1]
	} else if locs := r.keyword.FindAllStringIndex(input, -1); len(locs) > 0 {
		raw = input[locs[len(locs)-1][1]:]
	}
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), ":=- "))
}

func editUsage(f Flow) string {
	rules := f.editRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.field.label
	}
	example := "change metrics to Revenue, Profit"
	if f == FlowDesign {
		example = "change fonts to Inter, Roboto"
	}
	return fmt.Sprintf("I could not tell what to change. Editable fields: %s. Example: %q.", strings.Join(names, ", "), example)
}

// interpret applies one edit command. At most one field changes per call.
func (e *Engine) interpret(ctx context.Context, s Session, input string) (Session, string, error) {
	r, ok := match(s.Flow.editRules(), input)
	if !ok {
		return s, editUsage(s.Flow), nil
	}
	raw := r.extract(input)
	if raw == "" {
		return s, editUsage(s.Flow), nil
	}
	v, ok := r.field.parse(raw)
	if !ok {
		return s, editUsage(s.Flow), nil
	}
	if err := e.save(ctx, s, r.field, v); err != nil {
		return s, "", err
	}
	r.field.apply(&s.Data, v)
	return s, fmt.Sprintf("Updated %s to: %s", r.field.label, v), nil
}
