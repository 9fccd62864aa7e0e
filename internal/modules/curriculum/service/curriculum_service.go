package service

import (
	"context"
	"log/slog"
	"sync"

	"agencycheck/internal/modules/curriculum/domain"
	curriculumout "agencycheck/internal/modules/curriculum/port/out"
)

// CurriculumService loads the registry once and hands the same read-only
// instance to every caller.
type CurriculumService struct {
	store  curriculumout.CurriculumStore
	logger *slog.Logger

	mu     sync.Mutex
	loaded *domain.Curriculum
	source string
}

func NewCurriculumService(store curriculumout.CurriculumStore, logger *slog.Logger) *CurriculumService {
	return &CurriculumService{store: store, logger: logger}
}

func (s *CurriculumService) Registry(ctx context.Context) (*domain.Curriculum, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		return s.loaded, s.source, nil
	}
	cur, source, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	themes, comps, cats, tasks := cur.Stats()
	s.logger.Debug("curriculum loaded",
		slog.String("source", source),
		slog.Int("themes", themes),
		slog.Int("competencies", comps),
		slog.Int("categories", cats),
		slog.Int("tasks", tasks),
	)
	s.loaded = cur
	s.source = source
	return cur, source, nil
}

// Init writes the built-in curriculum to the data directory so it can be edited.
func (s *CurriculumService) Init(ctx context.Context, overwrite bool) (string, error) {
	path, err := s.store.WriteDefault(ctx, overwrite)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.loaded = nil
	s.source = ""
	s.mu.Unlock()
	s.logger.Info("curriculum written", slog.String("path", path))
	return path, nil
}
