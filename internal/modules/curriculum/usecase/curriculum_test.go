package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	curriculumout "agencycheck/internal/modules/curriculum/adapter/out"
	"agencycheck/internal/modules/curriculum/domain"
	"agencycheck/internal/modules/curriculum/dto"
	"agencycheck/internal/modules/curriculum/service"
	"agencycheck/internal/modules/curriculum/usecase"
	"agencycheck/internal/platform/logging"
)

type countingStore struct {
	loads int
	err   error
}

func (s *countingStore) Load(context.Context) (*domain.Curriculum, string, error) {
	s.loads++
	if s.err != nil {
		return nil, "", s.err
	}
	cur, err := domain.New(domain.Definition{
		Themes:       []domain.Theme{{ID: "t1", Order: 1, Title: "Eins", Mandatory: []string{"c1"}}},
		Competencies: []domain.Competency{{ID: "c1", ThemeID: "t1", Text: "x"}},
	})
	return cur, "memory", err
}

func (s *countingStore) WriteDefault(context.Context, bool) (string, error) {
	return "/tmp/curriculum.yaml", nil
}

func TestRegistryIsLoadedOnce(t *testing.T) {
	t.Parallel()
	store := &countingStore{}
	uc := usecase.NewInteractor(service.NewCurriculumService(store, logging.Discard()))
	first, err := uc.Registry(context.Background())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	second, err := uc.Registry(context.Background())
	if err != nil {
		t.Fatalf("registry again: %v", err)
	}
	if first != second || store.loads != 1 {
		t.Fatalf("expected a single shared load, loads=%d", store.loads)
	}
	if _, err := uc.Init(context.Background(), dto.InitInput{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := uc.Registry(context.Background()); err != nil {
		t.Fatalf("registry after init: %v", err)
	}
	if store.loads != 2 {
		t.Fatalf("expected reload after init, loads=%d", store.loads)
	}
}

func TestRegistryErrorIsNotCached(t *testing.T) {
	t.Parallel()
	store := &countingStore{err: errors.New("disk gone")}
	uc := usecase.NewInteractor(service.NewCurriculumService(store, logging.Discard()))
	if _, err := uc.Registry(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	store.err = nil
	if _, err := uc.Registry(context.Background()); err != nil {
		t.Fatalf("expected recovery after error: %v", err)
	}
}

func TestShowEmbeddedCurriculum(t *testing.T) {
	t.Parallel()
	store := curriculumout.NewYAMLCurriculumStore(filepath.Join(t.TempDir(), "curriculum.yaml"))
	uc := usecase.NewInteractor(service.NewCurriculumService(store, logging.Discard()))
	out, err := uc.Show(context.Background())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if out.Source != curriculumout.SourceEmbedded {
		t.Fatalf("unexpected source: %s", out.Source)
	}
	if len(out.Themes) != 8 || len(out.Competencies) != 24 {
		t.Fatalf("unexpected sizes: themes=%d comps=%d", len(out.Themes), len(out.Competencies))
	}
	if out.Competencies[0].ID != "c1-1" || out.Competencies[0].ChangeTags[0] != "equity" {
		t.Fatalf("unexpected first competency: %+v", out.Competencies[0])
	}
}
