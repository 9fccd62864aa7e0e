package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agencycheck/internal/modules/journal/domain"
	journalout "agencycheck/internal/modules/journal/port/out"
	apperrors "agencycheck/internal/platform/errors"
	"agencycheck/internal/platform/markdown"
	"agencycheck/internal/platform/slug"
)

// VaultEntryStore keeps one markdown note per entry under
// entries/<subject>/<yyyy>/<mm>/<id>.md.
type VaultEntryStore struct {
	dataPath string
}

func NewVaultEntryStore(dataPath string) journalout.EntryStore {
	return &VaultEntryStore{dataPath: dataPath}
}

func (s *VaultEntryStore) root() string {
	return filepath.Join(s.dataPath, "entries")
}

func (s *VaultEntryStore) pathFor(entry domain.Entry) string {
	when := entry.EffectiveDate()
	return filepath.Join(s.root(), slug.Make(entry.SubjectID), when.Format("2006"), when.Format("01"), entry.ID+".md")
}

func (s *VaultEntryStore) Save(ctx context.Context, entry domain.Entry) (string, error) {
	if err := validID(entry.ID); err != nil {
		return "", err
	}
	if err := entry.Validate(); err != nil {
		return "", err
	}
	existing, err := s.FindByID(ctx, entry.ID)
	switch {
	case err == nil:
		if !existing.SameLearnerFields(entry) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrImmutableEntry, entry.ID)
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return "", err
	}

	notePath := s.pathFor(entry)
	if err := os.MkdirAll(filepath.Dir(notePath), 0o755); err != nil {
		return "", fmt.Errorf("create entry directory: %w", err)
	}
	body := strings.TrimSpace(entry.Note)
	if body != "" {
		body += "\n"
	}
	if notes := renderSupervisorNotes(entry); notes != "" {
		body = markdown.ReplaceManagedBlock(body, domain.SupervisorNotesStart, domain.SupervisorNotesEnd, notes)
	}
	rendered, err := markdown.RenderFrontmatter(encodeDocument(entry), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(notePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write entry markdown: %w", err)
	}
	return notePath, nil
}

func (s *VaultEntryStore) FindByID(_ context.Context, id string) (domain.Entry, error) {
	if err := validID(id); err != nil {
		return domain.Entry{}, apperrors.ErrNotFound
	}
	matches, err := filepath.Glob(filepath.Join(s.root(), "*", "*", "*", id+".md"))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("glob entry notes: %w", err)
	}
	if len(matches) == 0 {
		return domain.Entry{}, fmt.Errorf("entry %s: %w", id, apperrors.ErrNotFound)
	}
	sort.Strings(matches)
	return readEntry(matches[0])
}

func (s *VaultEntryStore) List(_ context.Context) ([]domain.Entry, error) {
	paths := []string{}
	err := filepath.WalkDir(s.root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".md" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Entry{}, nil
		}
		return nil, fmt.Errorf("walk entry notes: %w", err)
	}
	sort.Strings(paths)

	out := make([]domain.Entry, 0, len(paths))
	for _, path := range paths {
		entry, err := readEntry(path)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func readEntry(path string) (domain.Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("read %s: %w", path, err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(content))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse %s: %w", path, err)
	}
	entry, err := decodeDocument(meta)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("decode entry %s: %w", path, err)
	}
	if entry.ID == "" {
		entry.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	entry.Note = strings.TrimSpace(markdown.StripManagedBlock(body, domain.SupervisorNotesStart, domain.SupervisorNotesEnd))
	entry.NotePath = path
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, fmt.Errorf("decode entry %s: %w", path, err)
	}
	return entry, nil
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, `/\*?[]`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: invalid entry id %q", apperrors.ErrInvalidInput, id)
	}
	return nil
}
