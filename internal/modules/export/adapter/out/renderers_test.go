package out_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	exportout "agencycheck/internal/modules/export/adapter/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
)

func sampleReport() progressdomain.Report {
	return progressdomain.Report{
		SubjectID: "lena",
		Window: progressdomain.ReportWindow{
			Mode: "custom", Label: "2024-08-01..2025-07-31",
			Start: "2024-08-01T00:00:00Z", End: "2025-07-31T23:59:59Z", Bounded: true,
		},
		Policies: progressdomain.ReportPolicies{Theme: "binary:2", Category: "binary:2", Overall: "graduated:3"},
		PerTheme: []progressdomain.ThemeProgress{{
			ThemeID: "t1", Order: 1, Title: "Kommunikation | Team", Entries: 3, Hours: 4.5, Items: 2, Pct: 75,
			Done:       []progressdomain.ScoredItem{{ID: "c1-1", Label: "Zuhoeren", Count: 3, Hours: 4.5, Improved: 1, State: progressdomain.StateDone}},
			InProgress: []progressdomain.ScoredItem{{ID: "c1-2", Label: "Fragen", Count: 1, State: progressdomain.StateInProgress}},
			Pending:    []progressdomain.ScoredItem{},
		}},
		PerCategory: []progressdomain.CategoryProgress{{
			CategoryID: "k1", Title: "Werkstatt", Icon: "W", Entries: 2, Hours: 6, Items: 3, Pct: 33,
			Done:       []progressdomain.ScoredItem{{ID: "k1:Feilen", Label: "Feilen", Count: 2, State: progressdomain.StateDone}},
			InProgress: []progressdomain.ScoredItem{},
			Pending:    []progressdomain.ScoredItem{},
		}},
		PerCompetency: []progressdomain.CompetencyProgress{
			{CompetencyID: "c1-1", ThemeID: "t1", Text: "Zuhoeren", ChangeTags: []string{"equity"}, Count: 3, Improved: 1, Hours: 4.5, Credit: 1, State: progressdomain.StateDone},
			{CompetencyID: "c1-2", ThemeID: "t1", Text: "Fragen", ChangeTags: []string{}, Count: 1, Credit: 0.33, State: progressdomain.StateInProgress},
		},
		OverallCompetencyPct: 67,
		Totals:               progressdomain.Totals{Entries: 3, EntriesWithCompetencies: 3, HoursOnCompetencies: 4.5, HoursOnCategory: 6, UnrecognizedReferences: 1, CategoriesWorked: 1},
		Warnings:             []string{progressdomain.WarningUnrecognizedReferences},
	}
}

func TestMarkdownRendererSections(t *testing.T) {
	t.Parallel()
	artifact, err := exportout.NewMarkdownRenderer().Render(sampleReport())
	require.NoError(t, err)
	md := string(artifact.Content)

	assert.Equal(t, "md", artifact.Extension)
	assert.Contains(t, md, "- Window: 2024-08-01..2025-07-31 (2024-08-01 to 2025-07-31)")
	assert.Contains(t, md, `| 1 | Kommunikation \| Team | 3 | 4.5 | 1 | 1 | 0 | 75% |`)
	assert.Contains(t, md, "- Zuhoeren (3x, 4.5h, 1 improved)")
	assert.Contains(t, md, "| c1-1 | 3 | 1 | 4.5 | done | equity |")
	assert.Contains(t, md, "| W Werkstatt | 2 | 6 | 1/3 | 33% |")
	assert.Contains(t, md, "- Unrecognized references: 1")
	assert.Contains(t, md, "> **Warnings:** unrecognized_references")
}

func TestXLSXRendererWritesAllSheets(t *testing.T) {
	t.Parallel()
	artifact, err := exportout.NewXLSXRenderer().Render(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "xlsx", artifact.Extension)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportout.SheetSummary, exportout.SheetThemes, exportout.SheetCompetencies, exportout.SheetCategories}, f.GetSheetList())

	themes, err := f.GetRows(exportout.SheetThemes)
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Theme", themes[0][1])
	assert.Equal(t, []string{"1", "t1", "Kommunikation | Team", "3", "4.5", "1", "1", "0", "75"}, themes[1])

	comps, err := f.GetRows(exportout.SheetCompetencies)
	require.NoError(t, err)
	require.Len(t, comps, 3)
	assert.Equal(t, "equity", comps[1][8])

	summary, err := f.GetRows(exportout.SheetSummary)
	require.NoError(t, err)
	found := false
	for _, row := range summary {
		if len(row) == 2 && row[0] == "Overall competency %" {
			found = row[1] == "67"
		}
	}
	assert.True(t, found, "summary should carry the overall percentage")
}

func TestJSONRendererIsIndented(t *testing.T) {
	t.Parallel()
	artifact, err := exportout.NewJSONRenderer().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(artifact.Content), "{\n  \"subjectId\": \"lena\""))
	assert.Equal(t, "application/json", artifact.MediaType)
}
