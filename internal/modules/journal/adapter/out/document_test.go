package out

import (
	"encoding/json"
	"testing"
	"time"

	"agencycheck/internal/modules/journal/domain"
)

func TestDecodeDocumentNormalizesLegacyKeys(t *testing.T) {
	t.Parallel()
	doc := map[string]any{
		"id":              "legacy-1",
		"apprenticeId":    "lea",
		"date":            map[string]any{"seconds": float64(1741996800), "nanoseconds": float64(0)},
		"category":        "reifen",
		"tasks":           []any{"Räder wechseln", "Räder wechseln"},
		"hoursWorked":     float64(3),
		"hoursComps":      "1,5",
		"comps":           []any{"c1-1 (verbessert)", "c1-2"},
		"status":          "geuebt",
		"trainerNote":     "Sauber gearbeitet",
		"trainerNoteDate": "2025-03-16T09:00:00Z",
	}
	entry, err := decodeDocument(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.SubjectID != "lea" || entry.CategoryID != "reifen" {
		t.Fatalf("unexpected identity fields: %+v", entry)
	}
	if entry.Date == nil || entry.Date.Format(time.DateOnly) != "2025-03-15" {
		t.Fatalf("unexpected date: %v", entry.Date)
	}
	if !entry.CreatedAt.Equal(*entry.Date) {
		t.Fatalf("expected createdAt to fall back to date")
	}
	if entry.HoursOnCategory != 3 || entry.HoursOnCompetencies != 1.5 {
		t.Fatalf("unexpected hours: %v %v", entry.HoursOnCategory, entry.HoursOnCompetencies)
	}
	if len(entry.Competencies) != 2 || entry.Competencies[0].ID != "c1-1" || entry.Competencies[0].Status != domain.StatusImproved {
		t.Fatalf("unexpected refs: %+v", entry.Competencies)
	}
	if entry.Status != domain.StatusPracticed {
		t.Fatalf("unexpected status: %s", entry.Status)
	}
	if entry.TrainerNoteAt == nil || entry.TrainerNote != "Sauber gearbeitet" {
		t.Fatalf("unexpected trainer note: %+v", entry)
	}
}

func TestDecodeDocumentPrefersDetailedReferences(t *testing.T) {
	t.Parallel()
	doc := map[string]any{
		"id":        "legacy-2",
		"learnerId": "max",
		"createdAt": "2025-01-10",
		"compDetails": []any{
			map[string]any{"name": "c2-1", "status": "verbessert", "hours": float64(2)},
		},
		"competencies":  []any{"c2-1", "c2-2"},
		"competencyId":  "c2-3",
		"hoursCategory": float64(4),
		"hoursWorked":   float64(9),
	}
	entry, err := decodeDocument(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	refs := entry.UniqueCompetencies()
	if len(refs) != 3 {
		t.Fatalf("expected three unique refs, got %+v", refs)
	}
	if refs[0].Hours == nil || *refs[0].Hours != 2 || refs[0].Status != domain.StatusImproved {
		t.Fatalf("expected detailed ref first: %+v", refs[0])
	}
	if refs[2].ID != "c2-3" {
		t.Fatalf("expected competencyId last, got %+v", refs[2])
	}
	if entry.HoursOnCategory != 4 {
		t.Fatalf("hoursCategory must win over hoursWorked, got %v", entry.HoursOnCategory)
	}
	if entry.Date != nil {
		t.Fatalf("expected no activity date")
	}
}

func TestDecodeDocumentRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	if _, err := decodeDocument(map[string]any{"id": "x", "learnerId": "s", "status": "perfekt"}); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestEncodeDecodeKeepsEntry(t *testing.T) {
	t.Parallel()
	date := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	hours := 0.75
	entry := domain.Entry{
		ID:                  "e1",
		SubjectID:           "lea",
		Date:                &date,
		CreatedAt:           date.Add(9 * time.Hour),
		ThemeID:             "t3",
		Competencies:        []domain.CompetencyRef{{ID: "c3-1", Hours: &hours, Status: domain.StatusImproved}},
		HoursOnCompetencies: 0.75,
		Status:              domain.StatusAchieved,
		Tags:                []string{"equity"},
	}
	raw, err := json.Marshal(encodeDocument(entry))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	decoded, err := decodeDocument(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.SameLearnerFields(entry) {
		t.Fatalf("entry changed across encoding:\n%+v\n%+v", entry, decoded)
	}
}
