package in

import (
	"context"

	"agencycheck/internal/modules/progress/dto"
	progressin "agencycheck/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Report(ctx context.Context, input dto.ReportInput) (dto.Report, error) {
	return h.usecase.Report(ctx, input)
}

func (h CLIHandler) WindowModes() []string {
	return h.usecase.WindowModes()
}
