package dto

import "time"

type CompetencyInput struct {
	ID     string   `json:"id" validate:"required,max=64"`
	Hours  *float64 `json:"hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Status string   `json:"status,omitempty" validate:"omitempty,oneof=practiced improved achieved geuebt verbessert erreicht"`
}

type LogEntryInput struct {
	SubjectID           string            `json:"subjectId" validate:"required,max=128"`
	Date                string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ThemeID             string            `json:"themeId,omitempty" validate:"max=64"`
	Competencies        []CompetencyInput `json:"competencies,omitempty" validate:"dive"`
	CategoryID          string            `json:"categoryId,omitempty" validate:"max=64"`
	Tasks               []string          `json:"tasks,omitempty" validate:"dive,required,max=200"`
	HoursOnCompetencies float64           `json:"hoursOnCompetencies" validate:"gte=0,lte=24"`
	HoursOnCategory     float64           `json:"hoursOnCategory" validate:"gte=0,lte=24"`
	Status              string            `json:"status,omitempty" validate:"omitempty,oneof=practiced improved achieved geuebt verbessert erreicht"`
	Where               string            `json:"where,omitempty" validate:"max=2000"`
	How                 string            `json:"how,omitempty" validate:"max=2000"`
	Note                string            `json:"note,omitempty" validate:"max=5000"`
	Tags                []string          `json:"tags,omitempty" validate:"dive,oneof=sustainability equity digitality"`
}

type AnnotateInput struct {
	EntryID string `json:"entryId" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=teacher trainer"`
	Note    string `json:"note" validate:"max=5000"`
}

type ListEntriesInput struct {
	SubjectID string `json:"subjectId" validate:"required"`
	Limit     int    `json:"limit" validate:"gte=0"`
}

type ImportInput struct {
	Path      string `json:"path" validate:"required"`
	SubjectID string `json:"subjectId,omitempty"`
}

type CompetencyOutput struct {
	ID     string   `json:"id"`
	Hours  *float64 `json:"hours,omitempty"`
	Status string   `json:"status,omitempty"`
}

type EntryOutput struct {
	ID                  string             `json:"id"`
	SubjectID           string             `json:"subjectId"`
	Date                *time.Time         `json:"date,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	ThemeID             string             `json:"themeId,omitempty"`
	Competencies        []CompetencyOutput `json:"competencies"`
	CategoryID          string             `json:"categoryId,omitempty"`
	Tasks               []string           `json:"tasks"`
	HoursOnCompetencies float64            `json:"hoursOnCompetencies"`
	HoursOnCategory     float64            `json:"hoursOnCategory"`
	Status              string             `json:"status"`
	Where               string             `json:"where,omitempty"`
	How                 string             `json:"how,omitempty"`
	Note                string             `json:"note,omitempty"`
	Tags                []string           `json:"tags"`
	TeacherNote         string             `json:"teacherNote,omitempty"`
	TeacherNoteAt       *time.Time         `json:"teacherNoteAt,omitempty"`
	TrainerNote         string             `json:"trainerNote,omitempty"`
	TrainerNoteAt       *time.Time         `json:"trainerNoteAt,omitempty"`
	NotePath            string             `json:"-"`
}

type SubjectOutput struct {
	SubjectID    string    `json:"subjectId"`
	Entries      int       `json:"entries"`
	LastActivity time.Time `json:"lastActivity"`
}

type ImportIssueOutput struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

type ImportOutput struct {
	Imported   int                 `json:"imported"`
	Duplicates int                 `json:"duplicates"`
	Issues     []ImportIssueOutput `json:"issues"`
}

type ReindexOutput struct {
	Entries int `json:"entries"`
}
