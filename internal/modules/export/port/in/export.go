package in

import (
	"context"

	"agencycheck/internal/modules/export/dto"
)

type Usecase interface {
	Formats(ctx context.Context) ([]dto.FormatInfo, error)
	Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
