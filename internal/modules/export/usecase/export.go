package usecase

import (
	"context"

	"agencycheck/internal/modules/export/dto"
	exportin "agencycheck/internal/modules/export/port/in"
	"agencycheck/internal/modules/export/service"
)

type Interactor struct {
	svc *service.ExportService
}

func NewInteractor(svc *service.ExportService) exportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Formats(ctx context.Context) ([]dto.FormatInfo, error) {
	return i.svc.Formats(ctx)
}

func (i *Interactor) Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error) {
	artifact, err := i.svc.Render(ctx, input)
	if err != nil {
		return dto.RenderOutput{}, err
	}
	return dto.RenderOutput{
		Format:    artifact.Format,
		MediaType: artifact.MediaType,
		Extension: artifact.Extension,
		Content:   artifact.Content,
	}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	return i.svc.Export(ctx, input)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
