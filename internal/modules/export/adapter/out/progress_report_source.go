package out

import (
	"context"

	exportout "agencycheck/internal/modules/export/port/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
	progressdto "agencycheck/internal/modules/progress/dto"
	progressin "agencycheck/internal/modules/progress/port/in"
)

type ProgressReportSource struct {
	progress progressin.Usecase
}

func NewProgressReportSource(progress progressin.Usecase) exportout.ReportSource {
	return &ProgressReportSource{progress: progress}
}

func (s *ProgressReportSource) Report(ctx context.Context, input progressdto.ReportInput) (progressdomain.Report, error) {
	return s.progress.Report(ctx, input)
}
