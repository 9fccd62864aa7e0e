package usecase

import (
	"context"

	"agencycheck/internal/modules/curriculum/domain"
	"agencycheck/internal/modules/curriculum/dto"
	curriculumin "agencycheck/internal/modules/curriculum/port/in"
	"agencycheck/internal/modules/curriculum/service"
)

type Interactor struct {
	svc *service.CurriculumService
}

func NewInteractor(svc *service.CurriculumService) curriculumin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Registry(ctx context.Context) (*domain.Curriculum, error) {
	cur, _, err := i.svc.Registry(ctx)
	return cur, err
}

func (i *Interactor) Show(ctx context.Context) (dto.CurriculumOutput, error) {
	cur, source, err := i.svc.Registry(ctx)
	if err != nil {
		return dto.CurriculumOutput{}, err
	}
	out := dto.CurriculumOutput{Source: source}
	for _, t := range cur.Themes() {
		out.Themes = append(out.Themes, dto.ThemeOutput{ID: t.ID, Order: t.Order, Title: t.Title, Mandatory: t.Mandatory})
	}
	for _, c := range cur.Competencies() {
		tags := make([]string, 0, len(c.ChangeTags))
		for _, tag := range c.ChangeTags {
			tags = append(tags, string(tag))
		}
		out.Competencies = append(out.Competencies, dto.CompetencyOutput{
			ID:            c.ID,
			ThemeID:       c.ThemeID,
			Text:          c.Text,
			KeySkills:     c.Rings.KeySkills,
			LanguageModes: c.Rings.LanguageModes,
			Society:       c.Rings.Society,
			ChangeTags:    tags,
		})
	}
	for _, c := range cur.Categories() {
		out.Categories = append(out.Categories, dto.CategoryOutput{ID: c.ID, Title: c.Title, Icon: c.Icon, Tasks: c.Tasks})
	}
	return out, nil
}

func (i *Interactor) Init(ctx context.Context, input dto.InitInput) (dto.InitOutput, error) {
	path, err := i.svc.Init(ctx, input.Overwrite)
	if err != nil {
		return dto.InitOutput{}, err
	}
	return dto.InitOutput{Path: path}, nil
}
