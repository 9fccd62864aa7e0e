package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatXLSX     = "xlsx"

	SourceBuiltin = "builtin"
)

var (
	ErrExporterDisabled = errors.New("exporter is disabled")
	ErrChecksumMismatch = errors.New("exporter checksum mismatch")
	ErrExporterTimeout  = errors.New("exporter timeout")
)

var (
	sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)
	formatPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// Manifest pins an external exporter binary to a checksum and the formats
// it is allowed to serve.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []string `json:"formats"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("exporter name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("exporter version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("exporter binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("exporter sha256 must be lowercase 64-char hex")
	}
	if len(m.Formats) == 0 {
		return fmt.Errorf("exporter formats are required")
	}
	seen := map[string]struct{}{}
	for _, format := range m.Formats {
		if err := ValidateFormat(format); err != nil {
			return err
		}
		if _, ok := seen[format]; ok {
			return fmt.Errorf("duplicate format: %s", format)
		}
		seen[format] = struct{}{}
	}
	return nil
}

func (m Manifest) Serves(format string) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func ValidateFormat(format string) error {
	if !formatPattern.MatchString(format) {
		return fmt.Errorf("invalid format name: %q", format)
	}
	return nil
}

// NormalizeFormat lowercases and maps the usual aliases.
func NormalizeFormat(raw string) string {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "md":
		return FormatMarkdown
	case "excel":
		return FormatXLSX
	}
	return format
}

type Metadata struct {
	Name    string
	Version string
	Formats []string
}

// Artifact is one rendered report.
type Artifact struct {
	Format    string
	MediaType string
	Extension string
	Content   []byte
}

func (a Artifact) Validate() error {
	if a.MediaType == "" {
		return fmt.Errorf("artifact media type is required")
	}
	if a.Extension == "" || strings.ContainsAny(a.Extension, `/\`) {
		return fmt.Errorf("artifact extension is invalid: %q", a.Extension)
	}
	return nil
}
