package chat

import "strings"

// ParseList splits on commas, trims every token and drops empty ones.
// Order and duplicates are kept.
func ParseList(input string) []string {
	out := []string{}
	for _, tok := range strings.Split(input, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ParseFilters is ParseList except that "none" in any case means no filters.
func ParseFilters(input string) []string {
	if strings.EqualFold(strings.TrimSpace(input), "none") {
		return []string{}
	}
	return ParseList(input)
}

// ParseTabs reads a comma list, or a single tab name when there is no comma.
// A bare number is a tab name, not a tab count.
func ParseTabs(input string) []string {
	if strings.Contains(input, ",") {
		return ParseList(input)
	}
	if name := strings.TrimSpace(input); name != "" {
		return []string{name}
	}
	return []string{}
}

// ParseBool is true when the answer contains "yes".
func ParseBool(input string) bool {
	return strings.Contains(strings.ToLower(input), "yes")
}

// ParseLogo returns the logo location for an answer. cleared reports that
// the answer declined a logo, in which case the location is "none" and any
// stored URL must be dropped.
func ParseLogo(input string) (location string, cleared bool) {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "none") || strings.Contains(lower, "no") {
		return "none", true
	}
	return strings.TrimSpace(input), false
}

// EditMode controls how tail-step input is recognised as an edit command.
type EditMode string

const (
	// EditHeuristic treats "change ..."/"update ..." and anything containing
	// " to " as an edit. Free notes containing " to " are misrouted.
	EditHeuristic EditMode = "heuristic"
	// EditPrefix requires the change/update verb.
	EditPrefix EditMode = "prefix"
)

// IsEditCommand reports whether input has the shape of an edit command.
func IsEditCommand(input string, mode EditMode) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if strings.HasPrefix(lower, "change ") || strings.HasPrefix(lower, "update ") {
		return true
	}
	return mode != EditPrefix && strings.Contains(lower, " to ")
}
