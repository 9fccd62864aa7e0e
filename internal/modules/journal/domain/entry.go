package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "agencycheck/internal/platform/errors"
)

type Status string

const (
	StatusPracticed Status = "practiced"
	StatusImproved  Status = "improved"
	StatusAchieved  Status = "achieved"
)

const (
	SupervisorNotesStart = "<!-- agencycheck:supervisor:start -->"
	SupervisorNotesEnd   = "<!-- agencycheck:supervisor:end -->"
	SchemaVersion        = 1
)

// ParseStatus accepts canonical values and the German spellings found in
// older journals. An empty value means practiced.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "practiced", "geuebt", "geübt":
		return StatusPracticed, nil
	case "improved", "verbessert":
		return StatusImproved, nil
	case "achieved", "erreicht":
		return StatusAchieved, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, raw)
	}
}

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleTrainer Role = "trainer"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleTrainer:
		return RoleTrainer, nil
	default:
		return "", fmt.Errorf("%w: %q cannot annotate entries", apperrors.ErrForbiddenRole, raw)
	}
}

// CompetencyRef points at a curriculum competency. Hours and Status are
// optional per-reference details; nil Hours means the entry total is split.
type CompetencyRef struct {
	ID     string
	Hours  *float64
	Status Status
}

type Entry struct {
	ID        string
	SubjectID string
	// Date is the activity date. CreatedAt stands in when it is missing.
	Date      *time.Time
	CreatedAt time.Time

	ThemeID      string
	Competencies []CompetencyRef
	CategoryID   string
	Tasks        []string

	HoursOnCompetencies float64
	HoursOnCategory     float64
	Status              Status

	Where string
	How   string
	Note  string
	Tags  []string

	TeacherNote   string
	TeacherNoteAt *time.Time
	TrainerNote   string
	TrainerNoteAt *time.Time

	NotePath string
}

func (e Entry) EffectiveDate() time.Time {
	if e.Date != nil && !e.Date.IsZero() {
		return *e.Date
	}
	return e.CreatedAt
}

func (e Entry) IsFreePractice() bool {
	return strings.TrimSpace(e.ThemeID) == ""
}

func (e Entry) HasSupervisorNote() bool {
	return strings.TrimSpace(e.TeacherNote) != "" || strings.TrimSpace(e.TrainerNote) != ""
}

// UniqueCompetencies drops repeated references to the same competency.
// The first occurrence wins.
func (e Entry) UniqueCompetencies() []CompetencyRef {
	seen := make(map[string]struct{}, len(e.Competencies))
	out := make([]CompetencyRef, 0, len(e.Competencies))
	for _, ref := range e.Competencies {
		id := strings.TrimSpace(ref.ID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ref.ID = id
		out = append(out, ref)
	}
	return out
}

func (e Entry) UniqueTasks() []string {
	seen := make(map[string]struct{}, len(e.Tasks))
	out := make([]string, 0, len(e.Tasks))
	for _, task := range e.Tasks {
		task = strings.TrimSpace(task)
		if task == "" {
			continue
		}
		if _, ok := seen[task]; ok {
			continue
		}
		seen[task] = struct{}{}
		out = append(out, task)
	}
	return out
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(e.SubjectID) == "" {
		return fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	if e.HoursOnCompetencies < 0 || e.HoursOnCategory < 0 {
		return fmt.Errorf("%w: hours must not be negative", apperrors.ErrInvalidInput)
	}
	if _, err := ParseStatus(string(e.Status)); err != nil {
		return err
	}
	for _, ref := range e.Competencies {
		if ref.Hours != nil && *ref.Hours < 0 {
			return fmt.Errorf("%w: hours for %s must not be negative", apperrors.ErrInvalidInput, ref.ID)
		}
	}
	return nil
}

// Annotate sets the supervisor note owned by role. Clearing the text clears
// the timestamp as well.
func (e *Entry) Annotate(role Role, note string, at time.Time) error {
	note = strings.TrimSpace(note)
	var stamp *time.Time
	if note != "" {
		t := at
		stamp = &t
	}
	switch role {
	case RoleTeacher:
		e.TeacherNote, e.TeacherNoteAt = note, stamp
	case RoleTrainer:
		e.TrainerNote, e.TrainerNoteAt = note, stamp
	default:
		return fmt.Errorf("%w: %q cannot annotate entries", apperrors.ErrForbiddenRole, role)
	}
	return nil
}

// SameLearnerFields reports whether every learner-owned field is unchanged.
// Only supervisor notes may differ between two versions of an entry.
func (e Entry) SameLearnerFields(other Entry) bool {
	a, b := e, other
	for _, x := range []*Entry{&a, &b} {
		x.TeacherNote, x.TeacherNoteAt = "", nil
		x.TrainerNote, x.TrainerNoteAt = "", nil
		x.NotePath = ""
	}
	return a.equal(b)
}

func (e Entry) equal(o Entry) bool {
	if e.ID != o.ID || e.SubjectID != o.SubjectID || !e.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	if !sameTime(e.Date, o.Date) {
		return false
	}
	if e.ThemeID != o.ThemeID || e.CategoryID != o.CategoryID || e.Status != o.Status {
		return false
	}
	if e.HoursOnCompetencies != o.HoursOnCompetencies || e.HoursOnCategory != o.HoursOnCategory {
		return false
	}
	if e.Where != o.Where || e.How != o.How || e.Note != o.Note {
		return false
	}
	if !sameStrings(e.Tasks, o.Tasks) || !sameStrings(e.Tags, o.Tags) {
		return false
	}
	if len(e.Competencies) != len(o.Competencies) {
		return false
	}
	for i := range e.Competencies {
		x, y := e.Competencies[i], o.Competencies[i]
		if x.ID != y.ID || x.Status != y.Status {
			return false
		}
		if (x.Hours == nil) != (y.Hours == nil) || (x.Hours != nil && *x.Hours != *y.Hours) {
			return false
		}
	}
	return true
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Normalized trims free text and reduces timestamps to UTC seconds, the
// precision the vault keeps.
func (e Entry) Normalized() Entry {
	out := e
	out.ID = strings.TrimSpace(e.ID)
	out.SubjectID = strings.TrimSpace(e.SubjectID)
	out.ThemeID = strings.TrimSpace(e.ThemeID)
	out.CategoryID = strings.TrimSpace(e.CategoryID)
	out.Where = strings.TrimSpace(e.Where)
	out.How = strings.TrimSpace(e.How)
	out.Note = strings.TrimSpace(e.Note)
	out.TeacherNote = strings.TrimSpace(e.TeacherNote)
	out.TrainerNote = strings.TrimSpace(e.TrainerNote)
	out.CreatedAt = e.CreatedAt.UTC().Truncate(time.Second)
	out.Date = truncated(e.Date)
	out.TeacherNoteAt = truncated(e.TeacherNoteAt)
	out.TrainerNoteAt = truncated(e.TrainerNoteAt)
	if out.Status == "" {
		out.Status = StatusPracticed
	}
	if len(e.Competencies) > 0 {
		out.Competencies = make([]CompetencyRef, len(e.Competencies))
		for i, ref := range e.Competencies {
			ref.ID = strings.TrimSpace(ref.ID)
			out.Competencies[i] = ref
		}
	}
	return out
}

func truncated(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC().Truncate(time.Second)
	return &v
}
