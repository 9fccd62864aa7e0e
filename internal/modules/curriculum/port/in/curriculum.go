package in

import (
	"context"

	"agencycheck/internal/modules/curriculum/domain"
	"agencycheck/internal/modules/curriculum/dto"
)

type Usecase interface {
	Registry(ctx context.Context) (*domain.Curriculum, error)
	Show(ctx context.Context) (dto.CurriculumOutput, error)
	Init(ctx context.Context, input dto.InitInput) (dto.InitOutput, error)
}
