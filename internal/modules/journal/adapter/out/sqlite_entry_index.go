package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agencycheck/internal/modules/journal/domain"
	journalout "agencycheck/internal/modules/journal/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteEntryIndex struct {
	db *sql.DB
}

func NewSQLiteEntryIndex(dbPath string) (journalout.EntryIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteEntryIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return index, nil
}

func (s *SQLiteEntryIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
  id TEXT PRIMARY KEY,
  subject_id TEXT NOT NULL,
  effective_date TEXT NOT NULL,
  created_at TEXT NOT NULL,
  theme_id TEXT,
  category_id TEXT,
  status TEXT NOT NULL,
  hours_on_competencies REAL NOT NULL,
  hours_on_category REAL NOT NULL,
  note_path TEXT,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_subject_date ON entries (subject_id, effective_date DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}
	return nil
}

func (s *SQLiteEntryIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("reset entries: %w", err)
	}
	return nil
}

func (s *SQLiteEntryIndex) Upsert(ctx context.Context, entry domain.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry payload: %w", err)
	}
	const stmt = `
INSERT INTO entries (id, subject_id, effective_date, created_at, theme_id, category_id, status, hours_on_competencies, hours_on_category, note_path, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  subject_id=excluded.subject_id,
  effective_date=excluded.effective_date,
  created_at=excluded.created_at,
  theme_id=excluded.theme_id,
  category_id=excluded.category_id,
  status=excluded.status,
  hours_on_competencies=excluded.hours_on_competencies,
  hours_on_category=excluded.hours_on_category,
  note_path=excluded.note_path,
  payload=excluded.payload;
`
	_, err = s.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.SubjectID,
		entry.EffectiveDate().UTC().Format(time.RFC3339),
		entry.CreatedAt.UTC().Format(time.RFC3339),
		entry.ThemeID,
		entry.CategoryID,
		string(entry.Status),
		entry.HoursOnCompetencies,
		entry.HoursOnCategory,
		entry.NotePath,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

func (s *SQLiteEntryIndex) ListBySubject(ctx context.Context, subjectID string) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM entries WHERE subject_id = ? ORDER BY effective_date DESC, created_at DESC, id ASC`,
		subjectID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Entry{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var entry domain.Entry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("decode entry payload: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func (s *SQLiteEntryIndex) Subjects(ctx context.Context) ([]domain.SubjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject_id, COUNT(*), MAX(effective_date) FROM entries GROUP BY subject_id ORDER BY subject_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.SubjectSummary{}
	for rows.Next() {
		var (
			summary domain.SubjectSummary
			last    string
		)
		if err := rows.Scan(&summary.SubjectID, &summary.Entries, &last); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		summary.LastActivity, _ = time.Parse(time.RFC3339, last)
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return out, nil
}
