package out

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"agencycheck/internal/modules/curriculum/domain"
	curriculumout "agencycheck/internal/modules/curriculum/port/out"
)

//go:embed default_curriculum.yaml
var defaultCurriculum []byte

const (
	SourceEmbedded = "embedded"
	schemaVersion  = 1
)

type YAMLCurriculumStore struct {
	path string
}

// NewYAMLCurriculumStore reads path when it exists and falls back to the
// built-in curriculum otherwise.
func NewYAMLCurriculumStore(path string) curriculumout.CurriculumStore {
	return &YAMLCurriculumStore{path: path}
}

func (s *YAMLCurriculumStore) Load(_ context.Context) (*domain.Curriculum, string, error) {
	raw, err := os.ReadFile(s.path)
	source := s.path
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("read curriculum: %w", err)
		}
		raw = defaultCurriculum
		source = SourceEmbedded
	}
	cur, err := Decode(raw)
	if err != nil {
		return nil, "", fmt.Errorf("load curriculum from %s: %w", source, err)
	}
	return cur, source, nil
}

func (s *YAMLCurriculumStore) WriteDefault(_ context.Context, overwrite bool) (string, error) {
	if _, err := os.Stat(s.path); err == nil && !overwrite {
		return "", fmt.Errorf("curriculum already exists at %s", s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fmt.Errorf("create curriculum directory: %w", err)
	}
	if err := os.WriteFile(s.path, defaultCurriculum, 0o644); err != nil {
		return "", fmt.Errorf("write curriculum: %w", err)
	}
	return s.path, nil
}

type curriculumFile struct {
	Version      int              `yaml:"version"`
	ChangeTags   []labelFile      `yaml:"changeTags"`
	Rings        ringCatalogFile  `yaml:"rings"`
	Themes       []themeFile      `yaml:"themes"`
	Competencies []competencyFile `yaml:"competencies"`
	Categories   []categoryFile   `yaml:"categories"`
}

type labelFile struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type ringCatalogFile struct {
	KeySkills     []labelFile `yaml:"keySkills"`
	LanguageModes []labelFile `yaml:"languageModes"`
	Society       []labelFile `yaml:"society"`
}

type themeFile struct {
	ID        string   `yaml:"id"`
	Order     int      `yaml:"order"`
	Title     string   `yaml:"title"`
	Mandatory []string `yaml:"mandatory"`
}

type ringRefsFile struct {
	KeySkills     []string `yaml:"keySkills"`
	LanguageModes []string `yaml:"languageModes"`
	Society       []string `yaml:"society"`
}

type competencyFile struct {
	ID         string       `yaml:"id"`
	Theme      string       `yaml:"theme"`
	Text       string       `yaml:"text"`
	Rings      ringRefsFile `yaml:"rings"`
	ChangeTags []string     `yaml:"changeTags"`
}

type categoryFile struct {
	ID    string   `yaml:"id"`
	Title string   `yaml:"title"`
	Icon  string   `yaml:"icon"`
	Tasks []string `yaml:"tasks"`
}

// Decode parses a curriculum document. Unknown keys are rejected so typos in
// hand-edited files surface instead of silently dropping data.
func Decode(raw []byte) (*domain.Curriculum, error) {
	var file curriculumFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode curriculum yaml: %w", err)
	}
	if file.Version != 0 && file.Version != schemaVersion {
		return nil, fmt.Errorf("unsupported curriculum version %d", file.Version)
	}
	return domain.New(toDefinition(file))
}

func toDefinition(file curriculumFile) domain.Definition {
	def := domain.Definition{
		Catalog: domain.Catalog{
			ChangeTags:    toLabels(file.ChangeTags),
			KeySkills:     toLabels(file.Rings.KeySkills),
			LanguageModes: toLabels(file.Rings.LanguageModes),
			Society:       toLabels(file.Rings.Society),
		},
	}
	for _, t := range file.Themes {
		def.Themes = append(def.Themes, domain.Theme{ID: t.ID, Order: t.Order, Title: t.Title, Mandatory: t.Mandatory})
	}
	for _, c := range file.Competencies {
		tags := make([]domain.ChangeTag, 0, len(c.ChangeTags))
		for _, tag := range c.ChangeTags {
			tags = append(tags, domain.ChangeTag(tag))
		}
		def.Competencies = append(def.Competencies, domain.Competency{
			ID:      c.ID,
			ThemeID: c.Theme,
			Text:    c.Text,
			Rings: domain.RingRefs{
				KeySkills:     c.Rings.KeySkills,
				LanguageModes: c.Rings.LanguageModes,
				Society:       c.Rings.Society,
			},
			ChangeTags: tags,
		})
	}
	for _, c := range file.Categories {
		def.Categories = append(def.Categories, domain.WorkCategory{ID: c.ID, Title: c.Title, Icon: c.Icon, Tasks: c.Tasks})
	}
	return def
}

func toLabels(in []labelFile) []domain.Label {
	out := make([]domain.Label, 0, len(in))
	for _, l := range in {
		out = append(out, domain.Label{ID: l.ID, Label: l.Label})
	}
	return out
}
