package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	journaldomain "agencycheck/internal/modules/journal/domain"
	"agencycheck/internal/modules/progress/domain"
	progressout "agencycheck/internal/modules/progress/port/out"
	"agencycheck/internal/platform/clock"
)

type ProgressService struct {
	clock      clock.Clock
	entries    progressout.EntrySource
	curriculum progressout.CurriculumSource
	cache      progressout.ReportCache
	policies   domain.Policies
	logger     *slog.Logger
}

func NewProgressService(
	clock clock.Clock,
	entries progressout.EntrySource,
	curriculum progressout.CurriculumSource,
	cache progressout.ReportCache,
	policies domain.Policies,
	logger *slog.Logger,
) *ProgressService {
	return &ProgressService{clock: clock, entries: entries, curriculum: curriculum, cache: cache, policies: policies, logger: logger}
}

func (s *ProgressService) DefaultPolicies() domain.Policies {
	return s.policies
}

// Report fetches the subject's entries and computes the report, reusing a
// cached one when the window, policies and entry snapshot are unchanged.
func (s *ProgressService) Report(ctx context.Context, subjectID string, spec domain.WindowSpec, policies domain.Policies) (domain.Report, error) {
	if err := policies.Validate(); err != nil {
		return domain.Report{}, err
	}
	cur, err := s.curriculum.Registry(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load curriculum: %w", err)
	}
	entries, err := s.entries.ListBySubject(ctx, subjectID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("list entries: %w", err)
	}

	now := s.clock.Now()
	req := domain.ReportRequest{SubjectID: subjectID, Window: spec, Now: now, Policies: policies}
	key, err := cacheKey(req, entries)
	if err != nil {
		return domain.Report{}, err
	}
	if s.cache != nil {
		if report, ok := s.cache.Get(key); ok {
			s.logger.Debug("report cache hit", slog.String("subject_id", subjectID), slog.String("window", string(spec.Mode)))
			return report, nil
		}
	}

	report := domain.ComputeReport(entries, cur, req)
	if s.cache != nil {
		s.cache.Add(key, report)
	}
	s.logger.Debug("report computed",
		slog.String("subject_id", subjectID),
		slog.String("window", report.Window.Label),
		slog.Int("entries", report.Totals.Entries),
		slog.Any("warnings", report.Warnings),
	)
	return report, nil
}

// cacheKey pins everything the report depends on: the resolved window
// bounds, the policy versions and a fingerprint of the entry snapshot.
func cacheKey(req domain.ReportRequest, entries []journaldomain.Entry) (string, error) {
	window := domain.ResolveWindow(req.Window, req.Now)
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("fingerprint entries: %w", err)
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s|%s|%s|%s|%t|%s|%s",
		req.SubjectID,
		window.Mode,
		formatBound(window.Start),
		formatBound(window.End),
		window.Fallback,
		req.Policies.Version(),
		hex.EncodeToString(sum[:]),
	), nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
