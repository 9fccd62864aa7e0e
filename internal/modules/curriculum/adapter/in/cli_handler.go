package in

import (
	"context"

	"agencycheck/internal/modules/curriculum/dto"
	curriculumin "agencycheck/internal/modules/curriculum/port/in"
)

type CLIHandler struct {
	usecase curriculumin.Usecase
}

func NewCLIHandler(usecase curriculumin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.CurriculumOutput, error) {
	return h.usecase.Show(ctx)
}

func (h CLIHandler) Init(ctx context.Context, overwrite bool) (dto.InitOutput, error) {
	return h.usecase.Init(ctx, dto.InitInput{Overwrite: overwrite})
}
