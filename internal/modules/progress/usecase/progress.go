package usecase

import (
	"context"
	"strings"
	"time"

	"agencycheck/internal/modules/progress/domain"
	"agencycheck/internal/modules/progress/dto"
	progressin "agencycheck/internal/modules/progress/port/in"
	"agencycheck/internal/modules/progress/service"
	"agencycheck/internal/platform/validate"
)

type Interactor struct {
	svc           *service.ProgressService
	defaultWindow domain.WindowMode
}

func NewInteractor(svc *service.ProgressService, defaultWindow domain.WindowMode) progressin.Usecase {
	if defaultWindow == "" {
		defaultWindow = domain.ModeTrainingYear
	}
	return &Interactor{svc: svc, defaultWindow: defaultWindow}
}

func (i *Interactor) Report(ctx context.Context, input dto.ReportInput) (domain.Report, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Report{}, err
	}
	spec, err := i.windowSpec(input)
	if err != nil {
		return domain.Report{}, err
	}
	policies, err := i.policies(input)
	if err != nil {
		return domain.Report{}, err
	}
	return i.svc.Report(ctx, strings.TrimSpace(input.SubjectID), spec, policies)
}

func (i *Interactor) WindowModes() []string {
	modes := domain.WindowModes()
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, string(m))
	}
	return out
}

// windowSpec rejects unknown modes. Unparsable custom bounds are dropped so
// the engine reports the fallback instead of failing.
func (i *Interactor) windowSpec(input dto.ReportInput) (domain.WindowSpec, error) {
	mode := i.defaultWindow
	if strings.TrimSpace(input.Window) != "" {
		parsed, err := domain.ParseWindowMode(input.Window)
		if err != nil {
			return domain.WindowSpec{}, err
		}
		mode = parsed
	}
	spec := domain.WindowSpec{Mode: mode}
	if mode == domain.ModeCustom {
		spec.Start = parseBound(input.From, false)
		spec.End = parseBound(input.To, true)
	}
	return spec, nil
}

func (i *Interactor) policies(input dto.ReportInput) (domain.Policies, error) {
	ps := i.svc.DefaultPolicies()
	for _, override := range []struct {
		raw    string
		target *domain.Policy
	}{
		{input.ThemePolicy, &ps.Theme},
		{input.CategoryPolicy, &ps.Category},
		{input.OverallPolicy, &ps.Overall},
	} {
		if strings.TrimSpace(override.raw) == "" {
			continue
		}
		p, err := domain.ParsePolicy(override.raw)
		if err != nil {
			return domain.Policies{}, err
		}
		*override.target = p
	}
	return ps, nil
}

// parseBound accepts RFC 3339 or a plain date. A plain upper bound covers
// the whole day.
func parseBound(raw string, upper bool) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
