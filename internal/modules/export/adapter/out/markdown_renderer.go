package out

import (
	"fmt"
	"strings"

	"agencycheck/internal/modules/export/domain"
	exportout "agencycheck/internal/modules/export/port/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
)

type MarkdownRenderer struct{}

func NewMarkdownRenderer() exportout.Renderer {
	return MarkdownRenderer{}
}

func (MarkdownRenderer) Format() string { return domain.FormatMarkdown }

func (MarkdownRenderer) Render(report progressdomain.Report) (domain.Artifact, error) {
	return domain.Artifact{
		Format:    domain.FormatMarkdown,
		MediaType: "text/markdown; charset=utf-8",
		Extension: "md",
		Content:   []byte(RenderMarkdown(report)),
	}, nil
}

// RenderMarkdown is also used by the terminal UI, which feeds it to glamour.
func RenderMarkdown(report progressdomain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Progress report: %s\n\n", cell(report.SubjectID))
	fmt.Fprintf(&b, "- Window: %s", report.Window.Label)
	if report.Window.Bounded {
		fmt.Fprintf(&b, " (%s to %s)", shortDate(report.Window.Start), shortDate(report.Window.End))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Policies: themes `%s`, categories `%s`, overall `%s`\n",
		report.Policies.Theme, report.Policies.Category, report.Policies.Overall)
	fmt.Fprintf(&b, "- Overall competency completion: **%d%%**\n\n", report.OverallCompetencyPct)

	if len(report.Warnings) > 0 {
		b.WriteString("> **Warnings:** ")
		b.WriteString(strings.Join(report.Warnings, ", "))
		b.WriteString("\n\n")
	}

	b.WriteString("## Themes\n\n")
	b.WriteString("| # | Theme | Entries | Hours | Done | In progress | Pending | Completion |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
	for _, t := range report.PerTheme {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %d | %d | %d | %d%% |\n",
			t.Order, cell(t.Title), t.Entries, hours(t.Hours), len(t.Done), len(t.InProgress), len(t.Pending), t.Pct)
	}
	b.WriteString("\n")

	for _, t := range report.PerTheme {
		if len(t.Done)+len(t.InProgress) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %d. %s\n\n", t.Order, t.Title)
		writeItems(&b, "Done", t.Done)
		writeItems(&b, "In progress", t.InProgress)
		b.WriteString("\n")
	}

	b.WriteString("## Competencies\n\n")
	b.WriteString("| Competency | Count | Improved | Hours | State | Tags |\n")
	b.WriteString("|---|---:|---:|---:|---|---|\n")
	for _, c := range report.PerCompetency {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s |\n",
			c.CompetencyID, c.Count, c.Improved, hours(c.Hours), c.State, strings.Join(c.ChangeTags, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Work categories\n\n")
	if len(report.PerCategory) == 0 {
		b.WriteString("_No work categories in the curriculum._\n\n")
	} else {
		b.WriteString("| Category | Entries | Hours | Tasks done | Completion |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, c := range report.PerCategory {
			title := c.Title
			if c.Icon != "" {
				title = c.Icon + " " + title
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %d/%d | %d%% |\n",
				cell(title), c.Entries, hours(c.Hours), len(c.Done), c.Items, c.Pct)
		}
		b.WriteString("\n")
	}

	t := report.Totals
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Entries: %d (with competencies: %d, free practice: %d)\n", t.Entries, t.EntriesWithCompetencies, t.FreePracticeEntries)
	fmt.Fprintf(&b, "- Hours on competencies: %s\n", hours(t.HoursOnCompetencies))
	fmt.Fprintf(&b, "- Hours on work categories: %s\n", hours(t.HoursOnCategory))
	fmt.Fprintf(&b, "- Improved entries: %d\n", t.ImprovedEntries)
	fmt.Fprintf(&b, "- Categories worked: %d\n", t.CategoriesWorked)
	fmt.Fprintf(&b, "- Supervisor notes: %d\n", t.SupervisorNotes)
	if t.UnrecognizedReferences > 0 {
		fmt.Fprintf(&b, "- Unrecognized references: %d\n", t.UnrecognizedReferences)
	}
	return b.String()
}

func writeItems(b *strings.Builder, heading string, items []progressdomain.ScoredItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s (%dx", item.Label, item.Count)
		if item.Hours > 0 {
			fmt.Fprintf(b, ", %sh", hours(item.Hours))
		}
		if item.Improved > 0 {
			fmt.Fprintf(b, ", %d improved", item.Improved)
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func hours(h float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}

func shortDate(rfc3339 string) string {
	if len(rfc3339) >= len("2006-01-02") {
		return rfc3339[:len("2006-01-02")]
	}
	return rfc3339
}
