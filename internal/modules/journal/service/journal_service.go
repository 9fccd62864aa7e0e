package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agencycheck/internal/modules/journal/domain"
	journalout "agencycheck/internal/modules/journal/port/out"
	"agencycheck/internal/platform/clock"
	apperrors "agencycheck/internal/platform/errors"
	"agencycheck/internal/platform/id"
)

type JournalService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  journalout.EntryStore
	index  journalout.EntryIndex
	legacy journalout.LegacyReader
	logger *slog.Logger
}

func NewJournalService(
	clock clock.Clock,
	idGen id.Generator,
	store journalout.EntryStore,
	index journalout.EntryIndex,
	legacy journalout.LegacyReader,
	logger *slog.Logger,
) *JournalService {
	return &JournalService{clock: clock, idGen: idGen, store: store, index: index, legacy: legacy, logger: logger}
}

// LogEntry persists a new learner entry. The id and createdAt are assigned here.
func (s *JournalService) LogEntry(ctx context.Context, draft domain.Entry) (domain.Entry, error) {
	entry := draft
	entry.ID = s.idGen.New()
	entry.CreatedAt = s.clock.Now()
	entry.TeacherNote, entry.TeacherNoteAt = "", nil
	entry.TrainerNote, entry.TrainerNoteAt = "", nil
	entry = entry.Normalized()
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	if err := s.persist(ctx, &entry); err != nil {
		return domain.Entry{}, err
	}
	s.logger.Info("entry logged",
		slog.String("entry_id", entry.ID),
		slog.String("subject_id", entry.SubjectID),
		slog.Int("competencies", len(entry.UniqueCompetencies())),
		slog.String("category_id", entry.CategoryID),
	)
	return entry, nil
}

// Annotate replaces the supervisor note owned by role. All other fields stay as stored.
func (s *JournalService) Annotate(ctx context.Context, entryID string, role domain.Role, note string) (domain.Entry, error) {
	entry, err := s.store.FindByID(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if err := entry.Annotate(role, note, s.clock.Now()); err != nil {
		return domain.Entry{}, err
	}
	entry = entry.Normalized()
	if err := s.persist(ctx, &entry); err != nil {
		return domain.Entry{}, err
	}
	s.logger.Info("entry annotated", slog.String("entry_id", entry.ID), slog.String("role", string(role)))
	return entry, nil
}

func (s *JournalService) GetEntry(ctx context.Context, entryID string) (domain.Entry, error) {
	return s.store.FindByID(ctx, entryID)
}

func (s *JournalService) ListBySubject(ctx context.Context, subjectID string) ([]domain.Entry, error) {
	return s.index.ListBySubject(ctx, subjectID)
}

func (s *JournalService) Subjects(ctx context.Context) ([]domain.SubjectSummary, error) {
	return s.index.Subjects(ctx)
}

type ImportResult struct {
	Imported   []domain.Entry
	Duplicates int
	Issues     []domain.ImportIssue
}

// Import reads a legacy dump and stores every entry that normalizes cleanly.
// subjectID, when set, replaces missing subject ids. Entries already present
// with identical content are counted as duplicates.
func (s *JournalService) Import(ctx context.Context, path, subjectID string) (ImportResult, error) {
	entries, issues, err := s.legacy.Read(ctx, path)
	if err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{Issues: issues}
	for _, entry := range entries {
		if entry.SubjectID == "" {
			entry.SubjectID = subjectID
		}
		if entry.ID == "" {
			entry.ID = s.idGen.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = s.clock.Now()
		}
		entry = entry.Normalized()
		if err := entry.Validate(); err != nil {
			result.Issues = append(result.Issues, domain.ImportIssue{Ref: entry.ID, Reason: err.Error()})
			continue
		}
		if existing, err := s.store.FindByID(ctx, entry.ID); err == nil {
			if existing.SameLearnerFields(entry) {
				result.Duplicates++
				continue
			}
			result.Issues = append(result.Issues, domain.ImportIssue{Ref: entry.ID, Reason: apperrors.ErrImmutableEntry.Error()})
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return result, err
		}
		if err := s.persist(ctx, &entry); err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, entry)
	}
	s.logger.Info("legacy import finished",
		slog.String("path", path),
		slog.Int("imported", len(result.Imported)),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("issues", len(result.Issues)),
	)
	return result, nil
}

// Reindex rebuilds the SQLite projection from the markdown vault.
func (s *JournalService) Reindex(ctx context.Context) (int, error) {
	if err := s.index.Reset(ctx); err != nil {
		return 0, err
	}
	entries, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := s.index.Upsert(ctx, entry); err != nil {
			return 0, err
		}
	}
	s.logger.Info("journal reindexed", slog.Int("entries", len(entries)))
	return len(entries), nil
}

func (s *JournalService) persist(ctx context.Context, entry *domain.Entry) error {
	path, err := s.store.Save(ctx, *entry)
	if err != nil {
		return fmt.Errorf("save entry %s: %w", entry.ID, err)
	}
	entry.NotePath = path
	return s.index.Upsert(ctx, *entry)
}
