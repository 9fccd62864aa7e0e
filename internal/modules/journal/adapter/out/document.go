package out

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"agencycheck/internal/modules/journal/domain"
	apperrors "agencycheck/internal/platform/errors"
)

// encodeDocument produces the frontmatter of an entry note. The learner note
// lives in the body and is not part of the map.
func encodeDocument(entry domain.Entry) map[string]any {
	comps := make([]map[string]any, 0, len(entry.Competencies))
	for _, ref := range entry.Competencies {
		item := map[string]any{"id": ref.ID}
		if ref.Hours != nil {
			item["hours"] = *ref.Hours
		}
		if ref.Status != "" {
			item["status"] = string(ref.Status)
		}
		comps = append(comps, item)
	}
	meta := map[string]any{
		"schema_version":        domain.SchemaVersion,
		"id":                    entry.ID,
		"subject_id":            entry.SubjectID,
		"created_at":            entry.CreatedAt.Format(time.RFC3339),
		"theme_id":              entry.ThemeID,
		"competencies":          comps,
		"category_id":           entry.CategoryID,
		"tasks":                 nonNil(entry.Tasks),
		"hours_on_competencies": entry.HoursOnCompetencies,
		"hours_on_category":     entry.HoursOnCategory,
		"status":                string(entry.Status),
		"where":                 entry.Where,
		"how":                   entry.How,
		"tags":                  nonNil(entry.Tags),
		"teacher_note":          entry.TeacherNote,
		"trainer_note":          entry.TrainerNote,
	}
	if entry.Date != nil {
		meta["date"] = entry.Date.Format(time.RFC3339)
	}
	if entry.TeacherNoteAt != nil {
		meta["teacher_note_at"] = entry.TeacherNoteAt.Format(time.RFC3339)
	}
	if entry.TrainerNoteAt != nil {
		meta["trainer_note_at"] = entry.TrainerNoteAt.Format(time.RFC3339)
	}
	return meta
}

// decodeDocument normalizes a stored or exported journal document into the
// canonical entry. Both the snake_case frontmatter keys and the camelCase
// keys of older exports are understood.
func decodeDocument(doc map[string]any) (domain.Entry, error) {
	entry := domain.Entry{
		ID:         firstString(doc, "id", "_id"),
		SubjectID:  firstString(doc, "subject_id", "subjectId", "learnerId", "apprenticeId"),
		ThemeID:    firstString(doc, "theme_id", "themeId"),
		CategoryID: firstString(doc, "category_id", "categoryId", "category"),
		Tasks:      asStringSlice(first(doc, "tasks")),
		Where:      firstString(doc, "where"),
		How:        firstString(doc, "how"),
		Note:       firstString(doc, "note"),
		Tags:       asStringSlice(first(doc, "tags")),

		TeacherNote: firstString(doc, "teacher_note", "teacherNote"),
		TrainerNote: firstString(doc, "trainer_note", "trainerNote"),
	}

	if t, ok := asTime(first(doc, "date")); ok {
		entry.Date = &t
	}
	if t, ok := asTime(first(doc, "created_at", "createdAt")); ok {
		entry.CreatedAt = t
	}
	if t, ok := asTime(first(doc, "teacher_note_at", "teacherNoteAt", "teacherNoteDate")); ok && entry.TeacherNote != "" {
		entry.TeacherNoteAt = &t
	}
	if t, ok := asTime(first(doc, "trainer_note_at", "trainerNoteAt", "trainerNoteDate")); ok && entry.TrainerNote != "" {
		entry.TrainerNoteAt = &t
	}

	entry.HoursOnCompetencies = asFloat(first(doc, "hours_on_competencies", "hoursOnCompetencies", "hoursComps"))
	entry.HoursOnCategory = asFloat(first(doc, "hours_on_category", "hoursOnCategory", "hoursCategory", "hoursWorked"))

	status, err := domain.ParseStatus(firstString(doc, "status"))
	if err != nil {
		return domain.Entry{}, err
	}
	entry.Status = status

	refs, err := decodeCompetencies(doc)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.Competencies = refs

	if entry.CreatedAt.IsZero() && entry.Date != nil {
		entry.CreatedAt = *entry.Date
	}
	return entry, nil
}

// decodeCompetencies collects references in precedence order: detailed
// records first so their hours and status win over bare ids.
func decodeCompetencies(doc map[string]any) ([]domain.CompetencyRef, error) {
	out := []domain.CompetencyRef{}
	for _, key := range []string{"compDetails", "competencies", "comps"} {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			if list, isList := raw.([]string); isList {
				for _, s := range list {
					items = append(items, s)
				}
			} else {
				return nil, fmt.Errorf("%w: %s must be a list", apperrors.ErrInvalidInput, key)
			}
		}
		for _, item := range items {
			ref, keep, err := decodeRef(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			if keep {
				out = append(out, ref)
			}
		}
	}
	if id := firstString(doc, "competencyId", "competency_id"); id != "" {
		out = append(out, domain.CompetencyRef{ID: id})
	}
	return out, nil
}

func decodeRef(item any) (domain.CompetencyRef, bool, error) {
	switch x := item.(type) {
	case string:
		return parseLegacyRef(x)
	case map[string]any:
		id := firstString(x, "id", "name")
		if id == "" {
			return domain.CompetencyRef{}, false, nil
		}
		ref := domain.CompetencyRef{ID: id}
		if raw := first(x, "hours"); raw != nil {
			h := asFloat(raw)
			ref.Hours = &h
		}
		if s := firstString(x, "status"); s != "" {
			status, err := domain.ParseStatus(s)
			if err != nil {
				return domain.CompetencyRef{}, false, err
			}
			ref.Status = status
		}
		return ref, true, nil
	case nil:
		return domain.CompetencyRef{}, false, nil
	default:
		return domain.CompetencyRef{}, false, fmt.Errorf("%w: unsupported competency reference %v", apperrors.ErrInvalidInput, item)
	}
}

// parseLegacyRef reads strings like "c1-1 (verbessert)".
func parseLegacyRef(raw string) (domain.CompetencyRef, bool, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return domain.CompetencyRef{}, false, nil
	}
	ref := domain.CompetencyRef{ID: strings.TrimRight(fields[0], ":,;")}
	if strings.Contains(strings.ToLower(raw), "verbessert") {
		ref.Status = domain.StatusImproved
	}
	return ref, ref.ID != "", nil
}

func first(doc map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(asString(doc[key])); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(v any) float64 {
	var out float64
	switch x := v.(type) {
	case int:
		out = float64(x)
	case int64:
		out = float64(x)
	case uint64:
		out = float64(x)
	case float64:
		out = x
	case float32:
		out = float64(x)
	case json.Number:
		out, _ = x.Float64()
	case string:
		_, _ = fmt.Sscanf(strings.Replace(x, ",", ".", 1), "%f", &out)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) || out < 0 {
		return 0
	}
	return out
}

func asStringSlice(v any) []string {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

// asTime accepts RFC 3339 strings, plain dates, YAML timestamps and the
// {seconds, nanoseconds} objects of document database exports.
func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), !x.IsZero()
	case string:
		x = strings.TrimSpace(x)
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), true
			}
		}
	case map[string]any:
		secs := asFloat(first(x, "seconds", "_seconds"))
		if secs == 0 {
			return time.Time{}, false
		}
		nanos := asFloat(first(x, "nanoseconds", "_nanoseconds"))
		return time.Unix(int64(secs), int64(nanos)).UTC(), true
	}
	return time.Time{}, false
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// renderSupervisorNotes is the human-readable view placed in the note body.
func renderSupervisorNotes(entry domain.Entry) string {
	lines := []string{}
	notes := map[string]string{}
	if entry.TeacherNote != "" {
		notes["Lehrperson"] = entry.TeacherNote
	}
	if entry.TrainerNote != "" {
		notes["Berufsbildner:in"] = entry.TrainerNote
	}
	keys := make([]string, 0, len(notes))
	for k := range notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("> **%s:** %s", k, notes[k]))
	}
	return strings.Join(lines, "\n")
}
