package out

import (
	"context"

	curriculumdomain "agencycheck/internal/modules/curriculum/domain"
	journaldomain "agencycheck/internal/modules/journal/domain"
	"agencycheck/internal/modules/progress/domain"
)

type EntrySource interface {
	ListBySubject(ctx context.Context, subjectID string) ([]journaldomain.Entry, error)
}

type CurriculumSource interface {
	Registry(ctx context.Context) (*curriculumdomain.Curriculum, error)
}

// ReportCache memoizes computed reports. Cached reports are shared and must
// be treated as read-only.
type ReportCache interface {
	Get(key string) (domain.Report, bool)
	Add(key string, report domain.Report)
	Purge()
}
