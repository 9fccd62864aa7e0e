package out

import (
	"context"

	"agencycheck/internal/modules/curriculum/domain"
)

type CurriculumStore interface {
	Load(ctx context.Context) (*domain.Curriculum, string, error)
	WriteDefault(ctx context.Context, overwrite bool) (string, error)
}
