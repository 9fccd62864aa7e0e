package out

import (
	"context"

	"agencycheck/internal/modules/export/domain"
	progressdomain "agencycheck/internal/modules/progress/domain"
	progressdto "agencycheck/internal/modules/progress/dto"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host runs manifest-pinned exporter binaries.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Render(ctx context.Context, manifest domain.Manifest, format string, reportJSON []byte, options map[string]string) (domain.Artifact, error)
}

// Renderer is an in-process exporter for one format.
type Renderer interface {
	Format() string
	Render(report progressdomain.Report) (domain.Artifact, error)
}

type ReportSource interface {
	Report(ctx context.Context, input progressdto.ReportInput) (progressdomain.Report, error)
}
