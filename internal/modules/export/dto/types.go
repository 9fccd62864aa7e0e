package dto

import progressdto "agencycheck/internal/modules/progress/dto"

// SourceBuiltin marks formats rendered in-process.
const SourceBuiltin = "builtin"

type FormatInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type RenderInput struct {
	Report  progressdto.ReportInput
	Format  string
	Options map[string]string
}

type RenderOutput struct {
	Format    string
	MediaType string
	Extension string
	Content   []byte
}

// ExportInput writes the rendered report to Path. A directory path (or an
// empty one) gets a generated file name.
type ExportInput struct {
	RenderInput
	Path string
}

type ExportOutput struct {
	Path   string
	Format string
	Bytes  int
}

type DoctorResult struct {
	Name            string   `json:"name"`
	Formats         []string `json:"formats"`
	ChecksumValid   bool     `json:"checksumValid"`
	BinaryReachable bool     `json:"binaryReachable"`
	LifecycleOK     bool     `json:"lifecycleOk"`
	Error           string   `json:"error,omitempty"`
}
