// Package export turns a project's requirement graph into a Markdown
// document.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dashspec/engine/internal/models"
)

// Snapshot is everything the formatter reads for one project.
type Snapshot struct {
	Project       models.Project
	Functional    *models.FunctionalRequirements
	Tabs          []models.DashboardTab
	GlobalFilters []models.Filter
	Additional    []models.AdditionalRequirement
	Design        *models.DesignRequirements
	Tasks         []models.Task
}

const notSpecified = "_Not specified_"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename is the download name of a project's export.
func Filename(name string, version int) string {
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("%s_v%d.md", whitespaceRun.ReplaceAllString(name, "_"), version)
}

// Render formats s. Output depends only on s, apart from the footer line
// carrying generatedAt.
func Render(s Snapshot, generatedAt time.Time) string {
	var b strings.Builder
	p := s.Project

	title := p.Name
	if strings.TrimSpace(title) == "" {
		title = "Untitled dashboard"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Version:** %d  \n", p.VersionNumber)
	fmt.Fprintf(&b, "**Status:** %s  \n", statusLabel(p.Status))
	fmt.Fprintf(&b, "**Last updated:** %s\n\n", p.UpdatedAt.UTC().Format("2006-01-02"))

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "**Description:** %s\n\n", orPlaceholder(p.Description))
	fmt.Fprintf(&b, "**Audience:** %s\n\n", orPlaceholder(p.Audience))

	writeFunctional(&b, s)
	writeDesign(&b, s.Design)
	writeTasks(&b, s.Tasks)

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n", generatedAt.UTC().Format(time.RFC3339))
	return b.String()
}

func writeFunctional(b *strings.Builder, s Snapshot) {
	b.WriteString("## Functional Requirements\n\n")

	var sources, metrics []string
	if s.Functional != nil {
		sources, metrics = s.Functional.DataSources, s.Functional.Metrics
	}
	b.WriteString("### Data Sources\n\n")
	writeBullets(b, sources, notSpecified)
	b.WriteString("### Metrics\n\n")
	writeBullets(b, metrics, notSpecified)

	b.WriteString("### Dashboard Tabs\n\n")
	if len(s.Tabs) == 0 {
		b.WriteString(notSpecified + "\n\n")
	} else {
		for i, t := range s.Tabs {
			fmt.Fprintf(b, "%d. %s\n", i+1, t.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Filters\n\n")
	b.WriteString("Global filters apply to every tab, and selections carry over when switching tabs.\n\n")
	if len(s.GlobalFilters) == 0 {
		b.WriteString("_No global filters_\n\n")
	} else {
		b.WriteString("| Filter | Data source | Multi-select | Default |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range s.GlobalFilters {
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", f.Name, orDash(f.DataSource), yesNo(f.MultiSelect), orDash(f.DefaultValue))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Additional Requirements\n\n")
	var notes []string
	for _, a := range s.Additional {
		if a.Category == models.CategoryFunctional {
			notes = append(notes, a.Content)
		}
	}
	writeBullets(b, notes, "_None_")

	if s.Project.HasAppendixTab {
		b.WriteString("### Appendix\n\nThe dashboard includes an appendix tab with supporting detail.\n\n")
	}
	if s.Project.HasMetricLogicTab {
		b.WriteString("### Metric Logic\n\nThe dashboard includes a metric logic tab documenting how each metric is calculated.\n\n")
	}
}

func writeDesign(b *strings.Builder, d *models.DesignRequirements) {
	b.WriteString("## Design Requirements\n\n")
	if d == nil {
		b.WriteString(notSpecified + "\n\n")
		return
	}
	fmt.Fprintf(b, "**Dashboard size:** %s\n\n", orPlaceholder(d.DashboardSize))
	fmt.Fprintf(b, "**Color palette:** %s\n\n", orPlaceholder(strings.Join(d.ColorPalette, ", ")))
	fmt.Fprintf(b, "**Fonts:** %s\n\n", orPlaceholder(strings.Join(d.Fonts, ", ")))

	logo := d.LogoLocation
	if d.LogoURL != "" {
		logo = strings.TrimSpace(fmt.Sprintf("%s (%s)", d.LogoLocation, d.LogoURL))
	}
	fmt.Fprintf(b, "**Logo:** %s\n\n", orPlaceholder(logo))
	fmt.Fprintf(b, "**Additional requirements:** %s\n\n", orPlaceholder(d.AdditionalRequirements))
}

func writeTasks(b *strings.Builder, tasks []models.Task) {
	b.WriteString("## Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("_No tasks yet_\n\n")
		return
	}
	for i, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(b, "%d. [%s] %s\n", i+1, mark, t.Description)
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(empty + "\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func statusLabel(status string) string {
	if status == models.StatusDone {
		return "Done"
	}
	return "Draft"
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
