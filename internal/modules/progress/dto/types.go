package dto

import "agencycheck/internal/modules/progress/domain"

// ReportInput is the edge form of a report request. Empty policy fields use
// the configured defaults; an empty window uses the configured default window.
type ReportInput struct {
	SubjectID      string `json:"subjectId" validate:"required"`
	Window         string `json:"window"`
	From           string `json:"from"`
	To             string `json:"to"`
	ThemePolicy    string `json:"themePolicy"`
	CategoryPolicy string `json:"categoryPolicy"`
	OverallPolicy  string `json:"overallPolicy"`
}

// Report is the engine's report as seen from the edges.
type Report = domain.Report
