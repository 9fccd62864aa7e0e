package domain_test

import (
	"errors"
	"testing"
	"time"

	"agencycheck/internal/modules/journal/domain"
	apperrors "agencycheck/internal/platform/errors"
)

func TestParseStatusAcceptsLegacySpellings(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Status{
		"":           domain.StatusPracticed,
		"geuebt":     domain.StatusPracticed,
		"Verbessert": domain.StatusImproved,
		"erreicht":   domain.StatusAchieved,
		"achieved":   domain.StatusAchieved,
	}
	for raw, want := range cases {
		got, err := domain.ParseStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", raw, want, got)
		}
	}
	if _, err := domain.ParseStatus("mastered"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestEffectiveDateFallsBackToCreatedAt(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	e := domain.Entry{CreatedAt: created}
	if !e.EffectiveDate().Equal(created) {
		t.Fatalf("expected createdAt fallback")
	}
	date := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	e.Date = &date
	if !e.EffectiveDate().Equal(date) {
		t.Fatalf("expected activity date")
	}
}

func TestUniqueReferencesKeepFirstOccurrence(t *testing.T) {
	t.Parallel()
	two := 2.0
	e := domain.Entry{
		Competencies: []domain.CompetencyRef{{ID: "c1-1", Hours: &two}, {ID: " c1-1 "}, {ID: ""}, {ID: "c1-2"}},
		Tasks:        []string{"Räder wechseln", "Räder wechseln", " ", "Reifen montieren"},
	}
	refs := e.UniqueCompetencies()
	if len(refs) != 2 || refs[0].Hours == nil || *refs[0].Hours != 2 {
		t.Fatalf("unexpected refs: %+v", refs)
	}
	tasks := e.UniqueTasks()
	if len(tasks) != 2 || tasks[1] != "Reifen montieren" {
		t.Fatalf("unexpected tasks: %v", tasks)
	}
}

func TestAnnotateOnlyTouchesSupervisorNotes(t *testing.T) {
	t.Parallel()
	at := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	orig := domain.Entry{ID: "e1", SubjectID: "s1", Status: domain.StatusPracticed, Note: "learner"}
	updated := orig
	if err := updated.Annotate(domain.RoleTrainer, "  gut gemacht ", at); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if updated.TrainerNote != "gut gemacht" || updated.TrainerNoteAt == nil || !updated.TrainerNoteAt.Equal(at) {
		t.Fatalf("unexpected trainer note: %+v", updated)
	}
	if !orig.SameLearnerFields(updated) {
		t.Fatalf("annotation must not count as a learner change")
	}
	if err := updated.Annotate(domain.RoleTrainer, "", at); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if updated.TrainerNoteAt != nil {
		t.Fatalf("expected cleared timestamp")
	}
	if err := updated.Annotate(domain.Role("learner"), "x", at); !errors.Is(err, apperrors.ErrForbiddenRole) {
		t.Fatalf("expected forbidden role, got %v", err)
	}
	changed := orig
	changed.Note = "rewritten"
	if orig.SameLearnerFields(changed) {
		t.Fatalf("expected learner change to be detected")
	}
}

func TestValidateRejectsNegativeHours(t *testing.T) {
	t.Parallel()
	e := domain.Entry{ID: "e1", SubjectID: "s1", HoursOnCategory: -1}
	if err := e.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	e.HoursOnCategory = 1
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
