package domain

import (
	"sort"

	journaldomain "agencycheck/internal/modules/journal/domain"
)

// FilterEntries keeps the subject's entries inside the window, most recent
// first. The id tiebreak makes the order independent of input order.
func FilterEntries(entries []journaldomain.Entry, subjectID string, window ResolvedWindow) []journaldomain.Entry {
	out := make([]journaldomain.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.SubjectID != subjectID {
			continue
		}
		if !window.Contains(entry.EffectiveDate()) {
			continue
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].EffectiveDate(), out[j].EffectiveDate()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
