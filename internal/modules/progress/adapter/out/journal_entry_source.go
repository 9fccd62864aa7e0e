package out

import (
	"context"

	journaldomain "agencycheck/internal/modules/journal/domain"
	journalin "agencycheck/internal/modules/journal/port/in"
	progressout "agencycheck/internal/modules/progress/port/out"
)

type JournalEntrySource struct {
	journal journalin.Usecase
}

func NewJournalEntrySource(journal journalin.Usecase) progressout.EntrySource {
	return JournalEntrySource{journal: journal}
}

func (s JournalEntrySource) ListBySubject(ctx context.Context, subjectID string) ([]journaldomain.Entry, error) {
	return s.journal.EntriesFor(ctx, subjectID)
}
