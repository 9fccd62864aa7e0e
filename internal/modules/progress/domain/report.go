package domain

import (
	"time"

	curriculumdomain "agencycheck/internal/modules/curriculum/domain"
	journaldomain "agencycheck/internal/modules/journal/domain"
)

const (
	WarningInvalidWindow          = "invalid_window"
	WarningUnrecognizedReferences = "unrecognized_references"
)

type ReportRequest struct {
	SubjectID string
	Window    WindowSpec
	Now       time.Time
	Policies  Policies
}

// Report is plain data. Times are RFC 3339 strings so the structure
// survives a JSON round trip unchanged.
type Report struct {
	SubjectID            string               `json:"subjectId"`
	Window               ReportWindow         `json:"window"`
	Policies             ReportPolicies       `json:"policies"`
	PerTheme             []ThemeProgress      `json:"perTheme"`
	PerCategory          []CategoryProgress   `json:"perCategory"`
	PerCompetency        []CompetencyProgress `json:"perCompetency"`
	OverallCompetencyPct int                  `json:"overallCompetencyPct"`
	Totals               Totals               `json:"totals"`
	Warnings             []string             `json:"warnings"`
}

type ReportWindow struct {
	Mode     string `json:"mode"`
	Label    string `json:"label"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Bounded  bool   `json:"bounded"`
	Fallback bool   `json:"fallback"`
}

type ReportPolicies struct {
	Theme    string `json:"theme"`
	Category string `json:"category"`
	Overall  string `json:"overall"`
}

type ThemeProgress struct {
	ThemeID    string       `json:"themeId"`
	Order      int          `json:"order"`
	Title      string       `json:"title"`
	Entries    int          `json:"entries"`
	Hours      float64      `json:"hours"`
	Items      int          `json:"items"`
	Done       []ScoredItem `json:"done"`
	InProgress []ScoredItem `json:"inProgress"`
	Pending    []ScoredItem `json:"pending"`
	Pct        int          `json:"completionPct"`
}

type CategoryProgress struct {
	CategoryID string       `json:"categoryId"`
	Title      string       `json:"title"`
	Icon       string       `json:"icon"`
	Entries    int          `json:"entries"`
	Hours      float64      `json:"hours"`
	Items      int          `json:"items"`
	Done       []ScoredItem `json:"done"`
	InProgress []ScoredItem `json:"inProgress"`
	Pending    []ScoredItem `json:"pending"`
	Pct        int          `json:"completionPct"`
}

// CompetencyProgress is the annual per-competency view.
type CompetencyProgress struct {
	CompetencyID string   `json:"competencyId"`
	ThemeID      string   `json:"themeId"`
	Text         string   `json:"text"`
	ChangeTags   []string `json:"changeTags"`
	Count        int      `json:"count"`
	Improved     int      `json:"improved"`
	Hours        float64  `json:"hours"`
	Credit       float64  `json:"credit"`
	State        State    `json:"state"`
}

type Totals struct {
	Entries                 int     `json:"entries"`
	EntriesWithCompetencies int     `json:"entriesWithCompetencies"`
	HoursOnCompetencies     float64 `json:"hoursOnCompetencies"`
	HoursOnCategory         float64 `json:"hoursOnCategory"`
	UnrecognizedReferences  int     `json:"unrecognizedReferences"`
	ImprovedEntries         int     `json:"improvedEntries"`
	CategoriesWorked        int     `json:"categoriesWorked"`
	SupervisorNotes         int     `json:"supervisorNotes"`
	FreePracticeEntries     int     `json:"freePracticeEntries"`
}

// ComputeReport is the whole pipeline: resolve the window, filter, count,
// score and assemble. It never fails; problems surface as warnings.
func ComputeReport(entries []journaldomain.Entry, cur *curriculumdomain.Curriculum, req ReportRequest) Report {
	window := ResolveWindow(req.Window, req.Now)
	filtered := FilterEntries(entries, req.SubjectID, window)
	tally := Count(filtered, cur)

	report := Report{
		SubjectID: req.SubjectID,
		Window:    reportWindow(window),
		Policies: ReportPolicies{
			Theme:    req.Policies.Theme.String(),
			Category: req.Policies.Category.String(),
			Overall:  req.Policies.Overall.String(),
		},
		PerTheme:      []ThemeProgress{},
		PerCategory:   []CategoryProgress{},
		PerCompetency: []CompetencyProgress{},
		Totals: Totals{
			Entries:                 tally.Entries,
			EntriesWithCompetencies: tally.EntriesWithCompetencies,
			HoursOnCompetencies:     roundHours(tally.HoursOnCompetencies),
			HoursOnCategory:         roundHours(tally.HoursOnCategory),
			UnrecognizedReferences:  tally.UnrecognizedReferences,
			ImprovedEntries:         tally.ImprovedEntries,
			CategoriesWorked:        tally.CategoriesWorked(),
			SupervisorNotes:         tally.SupervisorNotes,
			FreePracticeEntries:     tally.FreePracticeEntries,
		},
		Warnings: []string{},
	}

	for _, theme := range cur.Themes() {
		items := make([]GroupItem, 0, len(theme.Mandatory))
		hours := 0.0
		for _, id := range theme.Mandatory {
			item := competencyItem(cur, tally, id)
			hours += item.Hours
			items = append(items, item)
		}
		scored := ScoreGroup(items, req.Policies.Theme)
		report.PerTheme = append(report.PerTheme, ThemeProgress{
			ThemeID:    theme.ID,
			Order:      theme.Order,
			Title:      theme.Title,
			Entries:    tally.ThemeEntries[theme.ID],
			Hours:      roundHours(hours),
			Items:      scored.Items,
			Done:       scored.Done,
			InProgress: scored.InProgress,
			Pending:    scored.Pending,
			Pct:        scored.Pct,
		})
	}

	for _, cat := range cur.Categories() {
		items := make([]GroupItem, 0, len(cat.Tasks))
		for _, task := range cat.Tasks {
			items = append(items, GroupItem{ID: task, Label: task, Count: tally.TaskCount[TaskKey{CategoryID: cat.ID, Task: task}]})
		}
		scored := ScoreGroup(items, req.Policies.Category)
		report.PerCategory = append(report.PerCategory, CategoryProgress{
			CategoryID: cat.ID,
			Title:      cat.Title,
			Icon:       cat.Icon,
			Entries:    tally.CategoryEntries[cat.ID],
			Hours:      roundHours(tally.CategoryHours[cat.ID]),
			Items:      scored.Items,
			Done:       scored.Done,
			InProgress: scored.InProgress,
			Pending:    scored.Pending,
			Pct:        scored.Pct,
		})
	}

	overall := make([]GroupItem, 0)
	for _, comp := range cur.Competencies() {
		item := competencyItem(cur, tally, comp.ID)
		overall = append(overall, item)
		tags := make([]string, 0, len(comp.ChangeTags))
		for _, tag := range comp.ChangeTags {
			tags = append(tags, string(tag))
		}
		report.PerCompetency = append(report.PerCompetency, CompetencyProgress{
			CompetencyID: comp.ID,
			ThemeID:      comp.ThemeID,
			Text:         comp.Text,
			ChangeTags:   tags,
			Count:        item.Count,
			Improved:     item.Improved,
			Hours:        roundHours(item.Hours),
			Credit:       req.Policies.Overall.Credit(item.Count),
			State:        req.Policies.Overall.State(item.Count),
		})
	}
	report.OverallCompetencyPct = ScoreGroup(overall, req.Policies.Overall).Pct

	if window.Fallback {
		report.Warnings = append(report.Warnings, WarningInvalidWindow)
	}
	if tally.UnrecognizedReferences > 0 {
		report.Warnings = append(report.Warnings, WarningUnrecognizedReferences)
	}
	return report
}

func competencyItem(cur *curriculumdomain.Curriculum, tally Tally, id string) GroupItem {
	item := GroupItem{
		ID:       id,
		Count:    tally.CompetencyCount[id],
		Improved: tally.CompetencyImproved[id],
		Hours:    tally.CompetencyHours[id],
	}
	if comp, ok := cur.Competency(id); ok {
		item.Label = comp.Text
	}
	return item
}

func reportWindow(w ResolvedWindow) ReportWindow {
	out := ReportWindow{Mode: string(w.Mode), Label: w.Label, Bounded: w.Bounded(), Fallback: w.Fallback}
	if w.Start != nil {
		out.Start = w.Start.Format(time.RFC3339)
	}
	if w.End != nil {
		out.End = w.End.Format(time.RFC3339)
	}
	return out
}
