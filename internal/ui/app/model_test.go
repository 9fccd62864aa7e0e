package app

import (
	"context"
	"strings"
	"testing"

	exportdto "agencycheck/internal/modules/export/dto"
	journaldto "agencycheck/internal/modules/journal/dto"
	progressdto "agencycheck/internal/modules/progress/dto"
	"agencycheck/internal/ui/components"
)

type fakeJournal struct{ subjects []journaldto.SubjectOutput }

func (f fakeJournal) ListEntries(context.Context, journaldto.ListEntriesInput) ([]journaldto.EntryOutput, error) {
	return nil, nil
}

func (f fakeJournal) ListSubjects(context.Context) ([]journaldto.SubjectOutput, error) {
	return f.subjects, nil
}

type fakeReports struct{}

func (fakeReports) Report(_ context.Context, in progressdto.ReportInput) (progressdto.Report, error) {
	return progressdto.Report{SubjectID: in.SubjectID}, nil
}

func (fakeReports) WindowModes() []string {
	return []string{"last7days", "trainingYear", "all", "custom"}
}

type fakeExport struct{ exported *exportdto.ExportInput }

func (fakeExport) Formats(context.Context) ([]exportdto.FormatInfo, error) {
	return []exportdto.FormatInfo{{Name: "json", Source: exportdto.SourceBuiltin}, {Name: "csv", Source: "csv"}}, nil
}

func (fakeExport) Render(context.Context, exportdto.RenderInput) (exportdto.RenderOutput, error) {
	return exportdto.RenderOutput{Format: "markdown", Content: []byte("# report")}, nil
}

func (f fakeExport) Export(_ context.Context, in exportdto.ExportInput) (exportdto.ExportOutput, error) {
	*f.exported = in
	return exportdto.ExportOutput{Path: "/tmp/lena-report.xlsx", Format: in.Format, Bytes: 42}, nil
}

func newTestModel(subject string) (Model, *exportdto.ExportInput) {
	var exported exportdto.ExportInput
	m := NewModel(fakeJournal{subjects: []journaldto.SubjectOutput{{SubjectID: "ali"}, {SubjectID: "lena"}}},
		fakeReports{}, fakeExport{exported: &exported}, subject, "")
	return m, &exported
}

func submit(t *testing.T, m Model, line string) (Model, func() any) {
	t.Helper()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: line})
	run := func() any {
		if cmd == nil {
			return nil
		}
		return cmd()
	}
	return next.(Model), run
}

func TestInitPicksFirstSubject(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel("")
	msg := m.Init()()
	next, _ := m.Update(msg)
	if got := next.(Model).subjectID; got != "ali" {
		t.Fatalf("expected first subject, got %q", got)
	}
}

func TestPaletteWindowRejectsUnknownMode(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel("lena")
	m, _ = submit(t, m, "window fortnight")
	if !strings.Contains(m.status, "unknown window") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.input.Window != "" {
		t.Fatalf("window must stay unchanged, got %q", m.input.Window)
	}
}

func TestPaletteWindowAndCustomUpdateInput(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel("lena")
	m, _ = submit(t, m, "window all")
	if m.input.Window != "all" || m.activeTab != tabProgress {
		t.Fatalf("unexpected input %+v tab %d", m.input, m.activeTab)
	}
	m, _ = submit(t, m, "custom 2026-01-01 2026-02-01")
	if m.input.Window != "custom" || m.input.From != "2026-01-01" || m.input.To != "2026-02-01" {
		t.Fatalf("unexpected custom input %+v", m.input)
	}
	if m.windowLabel() != "2026-01-01..2026-02-01" {
		t.Fatalf("unexpected label %q", m.windowLabel())
	}
}

func TestPaletteExportUsesCurrentReportInput(t *testing.T) {
	t.Parallel()
	m, exported := newTestModel("lena")
	m, _ = submit(t, m, "window trainingYear")
	m, run := submit(t, m, "export xlsx out/")
	msg := run()
	next, _ := m.Update(msg)
	if exported.Report.SubjectID != "lena" || exported.Report.Window != "trainingYear" || exported.Path != "out/" {
		t.Fatalf("unexpected export input %+v", *exported)
	}
	if status := next.(Model).status; !strings.Contains(status, "lena-report.xlsx") {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestPaletteFormatsShowsSources(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel("lena")
	m, run := submit(t, m, "formats")
	next, _ := m.Update(run())
	if status := next.(Model).status; status != "formats: json, csv (csv)" {
		t.Fatalf("unexpected status %q", status)
	}
}

func TestPaletteExportWithoutSubject(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel("")
	m, _ = submit(t, m, "export json")
	if m.status != "no subject selected" {
		t.Fatalf("unexpected status %q", m.status)
	}
}
