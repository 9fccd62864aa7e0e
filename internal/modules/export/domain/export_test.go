package domain_test

import (
	"strings"
	"testing"

	"agencycheck/internal/modules/export/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:    "csv",
		Version: "1.0.0",
		Binary:  "/tmp/csvexport",
		SHA256:  strings.Repeat("a", 64),
		Enabled: true,
		Formats: []string{"csv"},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		mutate    func(m *domain.Manifest)
		shouldErr bool
	}{
		{name: "valid", mutate: func(*domain.Manifest) {}},
		{name: "missing name", mutate: func(m *domain.Manifest) { m.Name = "" }, shouldErr: true},
		{name: "missing version", mutate: func(m *domain.Manifest) { m.Version = "" }, shouldErr: true},
		{name: "missing binary", mutate: func(m *domain.Manifest) { m.Binary = "" }, shouldErr: true},
		{name: "uppercase sha", mutate: func(m *domain.Manifest) { m.SHA256 = strings.Repeat("A", 64) }, shouldErr: true},
		{name: "no formats", mutate: func(m *domain.Manifest) { m.Formats = nil }, shouldErr: true},
		{name: "bad format", mutate: func(m *domain.Manifest) { m.Formats = []string{"C S V"} }, shouldErr: true},
		{name: "duplicate format", mutate: func(m *domain.Manifest) { m.Formats = []string{"csv", "csv"} }, shouldErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validManifest()
			tc.mutate(&m)
			err := m.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		" MD ":  domain.FormatMarkdown,
		"Excel": domain.FormatXLSX,
		"json":  domain.FormatJSON,
		"csv":   "csv",
	}
	for raw, want := range cases {
		if got := domain.NormalizeFormat(raw); got != want {
			t.Fatalf("NormalizeFormat(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestArtifactValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.Artifact{MediaType: "text/csv", Extension: "csv"}).Validate(); err != nil {
		t.Fatalf("expected valid artifact, got %v", err)
	}
	if err := (domain.Artifact{MediaType: "text/csv", Extension: "../x"}).Validate(); err == nil {
		t.Fatalf("expected path-like extension to be rejected")
	}
	if err := (domain.Artifact{Extension: "csv"}).Validate(); err == nil {
		t.Fatalf("expected missing media type to be rejected")
	}
}
