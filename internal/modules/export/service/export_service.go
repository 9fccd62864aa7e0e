package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agencycheck/internal/modules/export/domain"
	"agencycheck/internal/modules/export/dto"
	exportout "agencycheck/internal/modules/export/port/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
	apperrors "agencycheck/internal/platform/errors"
	"agencycheck/internal/platform/slug"
)

type ExportService struct {
	renderers map[string]exportout.Renderer
	store     exportout.ManifestStore
	host      exportout.Host
	reports   exportout.ReportSource
	logger    *slog.Logger
}

// NewExportService wires the built-in renderers and the external exporter
// host. host may be nil, which disables external formats.
func NewExportService(renderers []exportout.Renderer, store exportout.ManifestStore, host exportout.Host, reports exportout.ReportSource, logger *slog.Logger) *ExportService {
	byFormat := make(map[string]exportout.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ExportService{renderers: byFormat, store: store, host: host, reports: reports, logger: logger}
}

// Formats lists built-in formats first, then the formats of enabled
// exporters. A built-in format cannot be shadowed by an exporter.
func (s *ExportService) Formats(ctx context.Context) ([]dto.FormatInfo, error) {
	out := make([]dto.FormatInfo, 0, len(s.renderers))
	for _, name := range s.builtinFormats() {
		out = append(out, dto.FormatInfo{Name: name, Source: domain.SourceBuiltin})
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	external := []dto.FormatInfo{}
	for _, m := range manifests {
		if !m.Enabled || s.host == nil {
			continue
		}
		for _, format := range m.Formats {
			if _, builtin := s.renderers[format]; builtin {
				continue
			}
			external = append(external, dto.FormatInfo{Name: format, Source: m.Name})
		}
	}
	sort.SliceStable(external, func(i, j int) bool { return external[i].Name < external[j].Name })
	return append(out, external...), nil
}

func (s *ExportService) Render(ctx context.Context, input dto.RenderInput) (domain.Artifact, error) {
	format := domain.NormalizeFormat(input.Format)
	if err := domain.ValidateFormat(format); err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %v", apperrors.ErrUnknownFormat, err)
	}
	renderer, builtin := s.renderers[format]
	var manifest domain.Manifest
	if !builtin {
		var err error
		manifest, err = s.exporterFor(ctx, format)
		if err != nil {
			return domain.Artifact{}, err
		}
	}

	report, err := s.reports.Report(ctx, input.Report)
	if err != nil {
		return domain.Artifact{}, err
	}
	var artifact domain.Artifact
	if builtin {
		artifact, err = renderer.Render(report)
	} else {
		artifact, err = s.renderExternal(ctx, manifest, format, report, input.Options)
	}
	if err != nil {
		return domain.Artifact{}, err
	}
	if err := artifact.Validate(); err != nil {
		return domain.Artifact{}, fmt.Errorf("render %s: %w", format, err)
	}
	artifact.Format = format
	s.logger.Debug("report rendered", "subject", report.SubjectID, "format", format, "bytes", len(artifact.Content))
	return artifact, nil
}

func (s *ExportService) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	artifact, err := s.Render(ctx, input.RenderInput)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	path := targetPath(input.Path, input.Report.SubjectID, artifact.Extension)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dto.ExportOutput{}, fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("write export: %w", err)
	}
	s.logger.Info("report exported", "subject", input.Report.SubjectID, "format", artifact.Format, "path", path)
	return dto.ExportOutput{Path: path, Format: artifact.Format, Bytes: len(artifact.Content)}, nil
}

func (s *ExportService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name, Formats: m.Formats}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		switch {
		case !binaryOK:
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		case !checksumOK:
			result.Error = "checksum mismatch"
		case m.Enabled && s.host != nil:
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ExportService) renderExternal(ctx context.Context, manifest domain.Manifest, format string, report progressdomain.Report, options map[string]string) (domain.Artifact, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("encode report: %w", err)
	}
	artifact, err := s.host.Render(ctx, manifest, format, raw, options)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.Artifact{}, fmt.Errorf("%w: %s", domain.ErrExporterTimeout, manifest.Name)
		}
		return domain.Artifact{}, err
	}
	return artifact, nil
}

func (s *ExportService) exporterFor(ctx context.Context, format string) (domain.Manifest, error) {
	if s.host == nil {
		return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownFormat, format)
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	var disabled bool
	for _, m := range manifests {
		if !m.Serves(format) {
			continue
		}
		if !m.Enabled {
			disabled = true
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	if disabled {
		return domain.Manifest{}, fmt.Errorf("%w: format %s", domain.ErrExporterDisabled, format)
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownFormat, format)
}

func (s *ExportService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate exporter name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ExportService) builtinFormats() []string {
	names := make([]string, 0, len(s.renderers))
	for name := range s.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// targetPath turns an empty or directory path into <dir>/<subject>-report.<ext>.
func targetPath(path, subjectID, ext string) string {
	name := fmt.Sprintf("%s-report.%s", slug.Make(subjectID), ext)
	if strings.TrimSpace(path) == "" {
		return name
	}
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return filepath.Join(path, name)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, name)
	}
	return path
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read exporter binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
