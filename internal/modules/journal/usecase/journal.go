package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agencycheck/internal/modules/journal/domain"
	"agencycheck/internal/modules/journal/dto"
	journalin "agencycheck/internal/modules/journal/port/in"
	"agencycheck/internal/modules/journal/service"
	apperrors "agencycheck/internal/platform/errors"
	"agencycheck/internal/platform/validate"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LogEntry(ctx context.Context, input dto.LogEntryInput) (dto.EntryOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.EntryOutput{}, err
	}
	draft, err := toDraft(input)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry, err := i.svc.LogEntry(ctx, draft)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.EntryOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.EntryOutput{}, err
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	entry, err := i.svc.Annotate(ctx, input.EntryID, role, input.Note)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) GetEntry(ctx context.Context, entryID string) (dto.EntryOutput, error) {
	entry, err := i.svc.GetEntry(ctx, entryID)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) ListEntries(ctx context.Context, input dto.ListEntriesInput) ([]dto.EntryOutput, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	entries, err := i.svc.ListBySubject(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry))
	}
	return out, nil
}

func (i *Interactor) ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error) {
	subjects, err := i.svc.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubjectOutput, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, dto.SubjectOutput{SubjectID: s.SubjectID, Entries: s.Entries, LastActivity: s.LastActivity})
	}
	return out, nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.ImportOutput{}, err
	}
	result, err := i.svc.Import(ctx, input.Path, strings.TrimSpace(input.SubjectID))
	if err != nil {
		return dto.ImportOutput{}, err
	}
	out := dto.ImportOutput{Imported: len(result.Imported), Duplicates: result.Duplicates, Issues: []dto.ImportIssueOutput{}}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, dto.ImportIssueOutput{Ref: issue.Ref, Reason: issue.Reason})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	n, err := i.svc.Reindex(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{Entries: n}, nil
}

func (i *Interactor) EntriesFor(ctx context.Context, subjectID string) ([]domain.Entry, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, fmt.Errorf("%w: subject id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.ListBySubject(ctx, subjectID)
}

func toDraft(input dto.LogEntryInput) (domain.Entry, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return domain.Entry{}, err
	}
	draft := domain.Entry{
		SubjectID:           input.SubjectID,
		ThemeID:             input.ThemeID,
		CategoryID:          input.CategoryID,
		Tasks:               input.Tasks,
		HoursOnCompetencies: input.HoursOnCompetencies,
		HoursOnCategory:     input.HoursOnCategory,
		Status:              status,
		Where:               input.Where,
		How:                 input.How,
		Note:                input.Note,
		Tags:                input.Tags,
	}
	if input.Date != "" {
		date, err := time.Parse(time.DateOnly, input.Date)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("%w: date: %v", apperrors.ErrInvalidInput, err)
		}
		draft.Date = &date
	}
	for _, c := range input.Competencies {
		ref := domain.CompetencyRef{ID: c.ID, Hours: c.Hours}
		if c.Status != "" {
			if ref.Status, err = domain.ParseStatus(c.Status); err != nil {
				return domain.Entry{}, err
			}
		}
		draft.Competencies = append(draft.Competencies, ref)
	}
	return draft, nil
}

func toOutput(entry domain.Entry) dto.EntryOutput {
	out := dto.EntryOutput{
		ID:                  entry.ID,
		SubjectID:           entry.SubjectID,
		Date:                entry.Date,
		CreatedAt:           entry.CreatedAt,
		ThemeID:             entry.ThemeID,
		Competencies:        make([]dto.CompetencyOutput, 0, len(entry.Competencies)),
		CategoryID:          entry.CategoryID,
		Tasks:               nonNil(entry.Tasks),
		HoursOnCompetencies: entry.HoursOnCompetencies,
		HoursOnCategory:     entry.HoursOnCategory,
		Status:              string(entry.Status),
		Where:               entry.Where,
		How:                 entry.How,
		Note:                entry.Note,
		Tags:                nonNil(entry.Tags),
		TeacherNote:         entry.TeacherNote,
		TeacherNoteAt:       entry.TeacherNoteAt,
		TrainerNote:         entry.TrainerNote,
		TrainerNoteAt:       entry.TrainerNoteAt,
		NotePath:            entry.NotePath,
	}
	for _, ref := range entry.Competencies {
		out.Competencies = append(out.Competencies, dto.CompetencyOutput{ID: ref.ID, Hours: ref.Hours, Status: string(ref.Status)})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
