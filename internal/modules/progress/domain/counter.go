package domain

import (
	curriculumdomain "agencycheck/internal/modules/curriculum/domain"
	journaldomain "agencycheck/internal/modules/journal/domain"
)

type TaskKey struct {
	CategoryID string
	Task       string
}

// Tally is the raw repetition count of a filtered entry set.
type Tally struct {
	Entries                 int
	EntriesWithCompetencies int
	ImprovedEntries         int
	SupervisorNotes         int
	FreePracticeEntries     int
	UnrecognizedReferences  int

	HoursOnCompetencies float64
	HoursOnCategory     float64

	CompetencyCount    map[string]int
	CompetencyImproved map[string]int
	CompetencyHours    map[string]float64

	TaskCount       map[TaskKey]int
	CategoryEntries map[string]int
	CategoryHours   map[string]float64
	ThemeEntries    map[string]int
}

// Count walks the entries once. References are de-duplicated per entry;
// references the curriculum does not know are only tallied as unrecognized.
func Count(entries []journaldomain.Entry, cur *curriculumdomain.Curriculum) Tally {
	t := Tally{
		CompetencyCount:    map[string]int{},
		CompetencyImproved: map[string]int{},
		CompetencyHours:    map[string]float64{},
		TaskCount:          map[TaskKey]int{},
		CategoryEntries:    map[string]int{},
		CategoryHours:      map[string]float64{},
		ThemeEntries:       map[string]int{},
	}
	for _, entry := range entries {
		t.Entries++
		t.HoursOnCompetencies += entry.HoursOnCompetencies
		t.HoursOnCategory += entry.HoursOnCategory
		if entry.HasSupervisorNote() {
			t.SupervisorNotes++
		}
		if _, ok := cur.Theme(entry.ThemeID); ok {
			t.ThemeEntries[entry.ThemeID]++
		}

		refs := entry.UniqueCompetencies()
		if len(refs) > 0 {
			t.EntriesWithCompetencies++
			if entry.IsFreePractice() {
				t.FreePracticeEntries++
			}
		}
		improvedEntry := entry.Status == journaldomain.StatusImproved
		for _, ref := range refs {
			if ref.Status == journaldomain.StatusImproved {
				improvedEntry = true
			}
		}
		if improvedEntry {
			t.ImprovedEntries++
		}
		for _, ref := range refs {
			if !cur.HasCompetency(ref.ID) {
				t.UnrecognizedReferences++
				continue
			}
			t.CompetencyCount[ref.ID]++
			if entry.Status == journaldomain.StatusImproved || ref.Status == journaldomain.StatusImproved {
				t.CompetencyImproved[ref.ID]++
			}
			t.CompetencyHours[ref.ID] += refHours(entry, ref, len(refs))
		}

		t.countTasks(entry, cur)
	}
	return t
}

func (t *Tally) countTasks(entry journaldomain.Entry, cur *curriculumdomain.Curriculum) {
	if entry.CategoryID == "" {
		return
	}
	tasks := entry.UniqueTasks()
	if _, ok := cur.Category(entry.CategoryID); !ok {
		if len(tasks) == 0 {
			t.UnrecognizedReferences++
		} else {
			t.UnrecognizedReferences += len(tasks)
		}
		return
	}
	t.CategoryEntries[entry.CategoryID]++
	t.CategoryHours[entry.CategoryID] += entry.HoursOnCategory
	for _, task := range tasks {
		if !cur.HasTask(entry.CategoryID, task) {
			t.UnrecognizedReferences++
			continue
		}
		t.TaskCount[TaskKey{CategoryID: entry.CategoryID, Task: task}]++
	}
}

// refHours prefers the hours recorded on the reference and otherwise splits
// the entry's competency hours evenly across its distinct references.
func refHours(entry journaldomain.Entry, ref journaldomain.CompetencyRef, refs int) float64 {
	if ref.Hours != nil {
		return *ref.Hours
	}
	if refs == 0 {
		return 0
	}
	return entry.HoursOnCompetencies / float64(refs)
}

// CategoriesWorked counts known categories with at least one entry.
func (t Tally) CategoriesWorked() int {
	return len(t.CategoryEntries)
}
