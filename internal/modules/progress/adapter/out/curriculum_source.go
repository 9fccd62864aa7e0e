package out

import (
	"context"

	curriculumdomain "agencycheck/internal/modules/curriculum/domain"
	curriculumin "agencycheck/internal/modules/curriculum/port/in"
	progressout "agencycheck/internal/modules/progress/port/out"
)

type CurriculumRegistrySource struct {
	curriculum curriculumin.Usecase
}

func NewCurriculumRegistrySource(curriculum curriculumin.Usecase) progressout.CurriculumSource {
	return CurriculumRegistrySource{curriculum: curriculum}
}

func (s CurriculumRegistrySource) Registry(ctx context.Context) (*curriculumdomain.Curriculum, error) {
	return s.curriculum.Registry(ctx)
}
