package out

import (
	"fmt"
	"strings"

	"agencycheck/internal/modules/export/domain"
	exportout "agencycheck/internal/modules/export/port/out"
	progressdomain "agencycheck/internal/modules/progress/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary      = "Summary"
	SheetThemes       = "Themes"
	SheetCompetencies = "Competencies"
	SheetCategories   = "Categories"
)

type XLSXRenderer struct{}

func NewXLSXRenderer() exportout.Renderer {
	return XLSXRenderer{}
}

func (XLSXRenderer) Format() string { return domain.FormatXLSX }

func (XLSXRenderer) Render(report progressdomain.Report) (domain.Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetSummary)
	for _, name := range []string{SheetThemes, SheetCompetencies, SheetCategories} {
		if _, err := f.NewSheet(name); err != nil {
			return domain.Artifact{}, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("create header style: %w", err)
	}

	w := sheetWriter{f: f, header: header}
	w.rows(SheetSummary, []string{"Field", "Value"}, summaryRows(report))

	themes := make([][]any, 0, len(report.PerTheme))
	for _, t := range report.PerTheme {
		themes = append(themes, []any{t.Order, t.ThemeID, t.Title, t.Entries, t.Hours, len(t.Done), len(t.InProgress), len(t.Pending), t.Pct})
	}
	w.rows(SheetThemes, []string{"Order", "Theme", "Title", "Entries", "Hours", "Done", "In progress", "Pending", "Completion %"}, themes)

	comps := make([][]any, 0, len(report.PerCompetency))
	for _, c := range report.PerCompetency {
		comps = append(comps, []any{c.CompetencyID, c.ThemeID, c.Text, c.Count, c.Improved, c.Hours, c.Credit, string(c.State), strings.Join(c.ChangeTags, ", ")})
	}
	w.rows(SheetCompetencies, []string{"Competency", "Theme", "Text", "Count", "Improved", "Hours", "Credit", "State", "Tags"}, comps)

	cats := make([][]any, 0, len(report.PerCategory))
	for _, c := range report.PerCategory {
		cats = append(cats, []any{c.CategoryID, c.Title, c.Entries, c.Hours, len(c.Done), c.Items, c.Pct})
	}
	w.rows(SheetCategories, []string{"Category", "Title", "Entries", "Hours", "Tasks done", "Tasks", "Completion %"}, cats)

	if w.err != nil {
		return domain.Artifact{}, w.err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("write workbook: %w", err)
	}
	return domain.Artifact{
		Format:    domain.FormatXLSX,
		MediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension: "xlsx",
		Content:   buf.Bytes(),
	}, nil
}

func summaryRows(report progressdomain.Report) [][]any {
	t := report.Totals
	return [][]any{
		{"Subject", report.SubjectID},
		{"Window", report.Window.Label},
		{"Window start", report.Window.Start},
		{"Window end", report.Window.End},
		{"Theme policy", report.Policies.Theme},
		{"Category policy", report.Policies.Category},
		{"Overall policy", report.Policies.Overall},
		{"Overall competency %", report.OverallCompetencyPct},
		{"Entries", t.Entries},
		{"Entries with competencies", t.EntriesWithCompetencies},
		{"Free practice entries", t.FreePracticeEntries},
		{"Hours on competencies", t.HoursOnCompetencies},
		{"Hours on categories", t.HoursOnCategory},
		{"Improved entries", t.ImprovedEntries},
		{"Categories worked", t.CategoriesWorked},
		{"Supervisor notes", t.SupervisorNotes},
		{"Unrecognized references", t.UnrecognizedReferences},
		{"Warnings", strings.Join(report.Warnings, ", ")},
	}
}

// sheetWriter keeps the first error so the table code stays linear.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) rows(sheet string, header []string, rows [][]any) {
	if w.err != nil {
		return
	}
	headerRow := make([]any, 0, len(header))
	for _, h := range header {
		headerRow = append(headerRow, h)
	}
	if err := w.f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		w.err = fmt.Errorf("write %s header: %w", sheet, err)
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		w.err = fmt.Errorf("style %s header: %w", sheet, err)
		return
	}
	for i, row := range rows {
		row := row
		if err := w.f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			w.err = fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
			return
		}
	}
}
