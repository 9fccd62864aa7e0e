package in

import (
	"context"

	"agencycheck/internal/modules/progress/domain"
	"agencycheck/internal/modules/progress/dto"
)

type Usecase interface {
	Report(ctx context.Context, input dto.ReportInput) (domain.Report, error)
	WindowModes() []string
}
