package out

import (
	"context"

	"agencycheck/internal/modules/journal/domain"
)

type EntryStore interface {
	// Save writes the entry and returns its note path. Overwriting learner
	// fields of an existing entry fails with apperrors.ErrImmutableEntry.
	Save(ctx context.Context, entry domain.Entry) (string, error)
	FindByID(ctx context.Context, id string) (domain.Entry, error)
	List(ctx context.Context) ([]domain.Entry, error)
}

type EntryIndex interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, entry domain.Entry) error
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Entry, error)
	Subjects(ctx context.Context) ([]domain.SubjectSummary, error)
}

// LegacyReader turns an exported journal dump into canonical entries.
// Documents that cannot be normalized are reported, not fatal.
type LegacyReader interface {
	Read(ctx context.Context, path string) ([]domain.Entry, []domain.ImportIssue, error)
}
