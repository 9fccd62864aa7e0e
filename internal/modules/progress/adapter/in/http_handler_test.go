package in_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	curriculumdomain "agencycheck/internal/modules/curriculum/domain"
	curriculumdto "agencycheck/internal/modules/curriculum/dto"
	exportdto "agencycheck/internal/modules/export/dto"
	journaldomain "agencycheck/internal/modules/journal/domain"
	journaldto "agencycheck/internal/modules/journal/dto"
	progressin "agencycheck/internal/modules/progress/adapter/in"
	"agencycheck/internal/modules/progress/domain"
	"agencycheck/internal/modules/progress/dto"
	apperrors "agencycheck/internal/platform/errors"
	"agencycheck/internal/platform/logging"
)

type fakeProgress struct {
	last dto.ReportInput
}

func (f *fakeProgress) Report(_ context.Context, input dto.ReportInput) (domain.Report, error) {
	f.last = input
	if input.Window == "fortnight" {
		return domain.Report{}, fmt.Errorf("%w: %w: fortnight", apperrors.ErrInvalidInput, apperrors.ErrInvalidWindow)
	}
	return domain.Report{SubjectID: input.SubjectID, OverallCompetencyPct: 42, Window: domain.ReportWindow{Mode: input.Window}}, nil
}

func (f *fakeProgress) WindowModes() []string { return []string{"all", "custom"} }

type fakeJournal struct {
	annotated journaldto.AnnotateInput
}

func (f *fakeJournal) LogEntry(_ context.Context, input journaldto.LogEntryInput) (journaldto.EntryOutput, error) {
	if input.SubjectID == "" {
		return journaldto.EntryOutput{}, fmt.Errorf("%w: subjectId is required", apperrors.ErrInvalidInput)
	}
	return journaldto.EntryOutput{ID: "e-1", SubjectID: input.SubjectID}, nil
}

func (f *fakeJournal) Annotate(_ context.Context, input journaldto.AnnotateInput) (journaldto.EntryOutput, error) {
	f.annotated = input
	if input.EntryID == "missing" {
		return journaldto.EntryOutput{}, fmt.Errorf("entry %s: %w", input.EntryID, apperrors.ErrNotFound)
	}
	return journaldto.EntryOutput{ID: input.EntryID, TeacherNote: input.Note}, nil
}

func (f *fakeJournal) GetEntry(context.Context, string) (journaldto.EntryOutput, error) {
	return journaldto.EntryOutput{}, apperrors.ErrNotFound
}

func (f *fakeJournal) ListEntries(_ context.Context, input journaldto.ListEntriesInput) ([]journaldto.EntryOutput, error) {
	if input.SubjectID == "broken" {
		return nil, fmt.Errorf("sqlite: disk I/O error")
	}
	out := []journaldto.EntryOutput{{ID: "e-1", SubjectID: input.SubjectID}, {ID: "e-2", SubjectID: input.SubjectID}}
	if input.Limit > 0 && input.Limit < len(out) {
		out = out[:input.Limit]
	}
	return out, nil
}

func (f *fakeJournal) ListSubjects(context.Context) ([]journaldto.SubjectOutput, error) {
	return nil, nil
}

func (f *fakeJournal) Import(context.Context, journaldto.ImportInput) (journaldto.ImportOutput, error) {
	return journaldto.ImportOutput{}, nil
}

func (f *fakeJournal) Reindex(context.Context) (journaldto.ReindexOutput, error) {
	return journaldto.ReindexOutput{}, nil
}

func (f *fakeJournal) EntriesFor(context.Context, string) ([]journaldomain.Entry, error) {
	return nil, nil
}

type fakeCurriculum struct{}

func (fakeCurriculum) Registry(context.Context) (*curriculumdomain.Curriculum, error) {
	return nil, nil
}

func (fakeCurriculum) Show(context.Context) (curriculumdto.CurriculumOutput, error) {
	return curriculumdto.CurriculumOutput{Source: "embedded", Themes: []curriculumdto.ThemeOutput{{ID: "t1", Order: 1, Title: "Eins"}}}, nil
}

func (fakeCurriculum) Init(context.Context, curriculumdto.InitInput) (curriculumdto.InitOutput, error) {
	return curriculumdto.InitOutput{}, nil
}

type fakeExport struct {
	last exportdto.RenderInput
}

func (f *fakeExport) Formats(context.Context) ([]exportdto.FormatInfo, error) {
	return []exportdto.FormatInfo{{Name: "json", Source: "builtin"}}, nil
}

func (f *fakeExport) Render(_ context.Context, input exportdto.RenderInput) (exportdto.RenderOutput, error) {
	f.last = input
	if input.Format != "csv" {
		return exportdto.RenderOutput{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownFormat, input.Format)
	}
	return exportdto.RenderOutput{Format: "csv", MediaType: "text/csv", Extension: "csv", Content: []byte("a,b\n")}, nil
}

func (f *fakeExport) Export(context.Context, exportdto.ExportInput) (exportdto.ExportOutput, error) {
	return exportdto.ExportOutput{}, nil
}

func (f *fakeExport) Doctor(context.Context) ([]exportdto.DoctorResult, error) {
	return nil, nil
}

type fixture struct {
	server   *httptest.Server
	progress *fakeProgress
	journal  *fakeJournal
	export   *fakeExport
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{progress: &fakeProgress{}, journal: &fakeJournal{}, export: &fakeExport{}}
	handler := progressin.NewHTTPHandler(f.progress, f.journal, fakeCurriculum{}, f.export, logging.Discard())
	f.server = httptest.NewServer(handler.Router([]string{"https://school.example"}))
	t.Cleanup(f.server.Close)
	return f
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthAndCurriculum(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, body := get(t, f.server.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = get(t, f.server.URL+"/api/v1/curriculum")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cur curriculumdto.CurriculumOutput
	require.NoError(t, json.Unmarshal(body, &cur))
	assert.Equal(t, "embedded", cur.Source)
	require.Len(t, cur.Themes, 1)
}

func TestReportRoutePassesQuery(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, body := get(t, f.server.URL+"/api/v1/subjects/lena/report?window=custom&from=2024-08-01&to=2025-07-31&themePolicy=graduated:3")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var report domain.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "lena", report.SubjectID)
	assert.Equal(t, 42, report.OverallCompetencyPct)
	assert.Equal(t, dto.ReportInput{SubjectID: "lena", Window: "custom", From: "2024-08-01", To: "2025-07-31", ThemePolicy: "graduated:3"}, f.progress.last)
}

func TestReportRouteRejectsUnknownWindow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	resp, body := get(t, f.server.URL+"/api/v1/subjects/lena/report?window=fortnight")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "fortnight")
}

func TestRenderedReportRoute(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, body := get(t, f.server.URL+"/api/v1/subjects/lena/report.csv?window=all&opt.delimiter=%3B")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="lena-report.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", string(body))
	assert.Equal(t, "lena", f.export.last.Report.SubjectID)
	assert.Equal(t, map[string]string{"delimiter": ";"}, f.export.last.Options)

	resp, _ = get(t, f.server.URL+"/api/v1/subjects/lena/report.pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEntriesRoute(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, body := get(t, f.server.URL+"/api/v1/subjects/lena/entries?limit=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []journaldto.EntryOutput
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.Len(t, entries, 1)

	resp, _ = get(t, f.server.URL+"/api/v1/subjects/lena/entries?limit=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = get(t, f.server.URL+"/api/v1/subjects/broken/entries")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "sqlite", "internal errors must not leak")

	resp, body = get(t, f.server.URL+"/api/v1/subjects")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPostEntryAndNote(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := http.Post(f.server.URL+"/api/v1/entries", "application/json", strings.NewReader(`{"subjectId":"lena","themeId":"t1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(f.server.URL+"/api/v1/entries", "application/json", strings.NewReader(`{"subjectId":"lena","bogus":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(f.server.URL+"/api/v1/entries/e-7/notes", "application/json", strings.NewReader(`{"role":"teacher","note":"gut"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, journaldto.AnnotateInput{EntryID: "e-7", Role: "teacher", Note: "gut"}, f.journal.annotated)

	resp, err = http.Post(f.server.URL+"/api/v1/entries/missing/notes", "application/json", strings.NewReader(`{"role":"trainer","note":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/v1/curriculum", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://school.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://school.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
