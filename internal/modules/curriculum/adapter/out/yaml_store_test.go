package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	curriculumout "agencycheck/internal/modules/curriculum/adapter/out"
)

func TestLoadFallsBackToEmbeddedCurriculum(t *testing.T) {
	t.Parallel()
	store := curriculumout.NewYAMLCurriculumStore(filepath.Join(t.TempDir(), "curriculum.yaml"))
	cur, source, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if source != curriculumout.SourceEmbedded {
		t.Fatalf("expected embedded source, got %s", source)
	}
	themes, comps, cats, _ := cur.Stats()
	if themes != 8 || comps != 24 || cats == 0 {
		t.Fatalf("unexpected embedded stats: themes=%d comps=%d cats=%d", themes, comps, cats)
	}
	first := cur.Themes()[0]
	if first.ID != "t1" || first.Title != "Berufseinstieg" || len(first.Mandatory) != 3 {
		t.Fatalf("unexpected first theme: %+v", first)
	}
	comp, ok := cur.Competency("c4-3")
	if !ok || len(comp.ChangeTags) != 2 || len(comp.Rings.Society) != 3 {
		t.Fatalf("unexpected c4-3: %+v", comp)
	}
	if len(cur.Catalog().KeySkills) != 14 {
		t.Fatalf("expected 14 key skill rings, got %d", len(cur.Catalog().KeySkills))
	}
}

func TestWriteDefaultThenLoadFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data", "curriculum.yaml")
	store := curriculumout.NewYAMLCurriculumStore(path)
	written, err := store.WriteDefault(context.Background(), false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("unexpected written path: %s", written)
	}
	if _, err := store.WriteDefault(context.Background(), false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := store.WriteDefault(context.Background(), true); err != nil {
		t.Fatalf("overwrite default: %v", err)
	}
	_, source, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if source != path {
		t.Fatalf("expected file source, got %s", source)
	}
}

func TestLoadCustomCurriculum(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "curriculum.yaml")
	raw := `version: 1
themes:
  - { id: a, order: 1, title: "A", mandatory: [a-1] }
  - { id: b, order: 2, title: "Leer" }
competencies:
  - { id: a-1, theme: a, text: "x" }
categories:
  - { id: k, title: "K", icon: "*", tasks: ["eins", "zwei"] }
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write curriculum: %v", err)
	}
	cur, _, err := curriculumout.NewYAMLCurriculumStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load custom: %v", err)
	}
	if !cur.HasTask("k", "zwei") {
		t.Fatalf("expected task to be indexed")
	}
}

func TestDecodeRejectsUnknownFieldsAndBrokenReferences(t *testing.T) {
	t.Parallel()
	if _, err := curriculumout.Decode([]byte("themes:\n  - { id: a, title: A, threshold: 3 }\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := curriculumout.Decode([]byte("themes:\n  - { id: a, title: A, mandatory: [missing] }\n")); err == nil {
		t.Fatalf("expected unknown competency error")
	}
	if _, err := curriculumout.Decode([]byte("version: 7\n")); err == nil {
		t.Fatalf("expected version error")
	}
}
