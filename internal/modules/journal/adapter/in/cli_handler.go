package in

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"agencycheck/internal/modules/journal/dto"
	journalin "agencycheck/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// LogEntry takes competency flags of the form id[:hours[:status]].
func (h CLIHandler) LogEntry(ctx context.Context, input dto.LogEntryInput, compFlags []string) (dto.EntryOutput, error) {
	for _, raw := range compFlags {
		comp, err := ParseCompetencyFlag(raw)
		if err != nil {
			return dto.EntryOutput{}, err
		}
		input.Competencies = append(input.Competencies, comp)
	}
	return h.usecase.LogEntry(ctx, input)
}

func (h CLIHandler) Annotate(ctx context.Context, entryID, role, note string) (dto.EntryOutput, error) {
	return h.usecase.Annotate(ctx, dto.AnnotateInput{EntryID: entryID, Role: role, Note: note})
}

func (h CLIHandler) ListEntries(ctx context.Context, subjectID string, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.ListEntries(ctx, dto.ListEntriesInput{SubjectID: subjectID, Limit: limit})
}

func (h CLIHandler) ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error) {
	return h.usecase.ListSubjects(ctx)
}

func (h CLIHandler) Import(ctx context.Context, path, subjectID string) (dto.ImportOutput, error) {
	return h.usecase.Import(ctx, dto.ImportInput{Path: path, SubjectID: subjectID})
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func ParseCompetencyFlag(raw string) (dto.CompetencyInput, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return dto.CompetencyInput{}, fmt.Errorf("invalid competency %q, expected id[:hours[:status]]", raw)
	}
	out := dto.CompetencyInput{ID: strings.TrimSpace(parts[0])}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		hours, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return dto.CompetencyInput{}, fmt.Errorf("invalid hours in %q: %w", raw, err)
		}
		out.Hours = &hours
	}
	if len(parts) > 2 {
		out.Status = strings.TrimSpace(parts[2])
	}
	return out, nil
}
