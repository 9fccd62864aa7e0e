package in

import (
	"context"

	"agencycheck/internal/modules/journal/domain"
	"agencycheck/internal/modules/journal/dto"
)

type Usecase interface {
	LogEntry(ctx context.Context, input dto.LogEntryInput) (dto.EntryOutput, error)
	Annotate(ctx context.Context, input dto.AnnotateInput) (dto.EntryOutput, error)
	GetEntry(ctx context.Context, entryID string) (dto.EntryOutput, error)
	ListEntries(ctx context.Context, input dto.ListEntriesInput) ([]dto.EntryOutput, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
	// EntriesFor returns canonical entries for report computation.
	EntriesFor(ctx context.Context, subjectID string) ([]domain.Entry, error)
}
