package domain

import (
	"fmt"
	"sort"
	"strings"
)

type ChangeTag string

const (
	ChangeTagDigitality     ChangeTag = "digitality"
	ChangeTagEquity         ChangeTag = "equity"
	ChangeTagSustainability ChangeTag = "sustainability"
)

// Label is a display entry for ring references and change tags.
type Label struct {
	ID    string
	Label string
}

// RingRefs cross-reference a competency to the key skill, language mode and
// society rings of the framework curriculum. Informational only.
type RingRefs struct {
	KeySkills     []string
	LanguageModes []string
	Society       []string
}

type Theme struct {
	ID        string
	Order     int
	Title     string
	Mandatory []string
}

// Competency carries no repetition threshold; scoring policies supply it.
type Competency struct {
	ID         string
	ThemeID    string
	Text       string
	Rings      RingRefs
	ChangeTags []ChangeTag
}

type WorkCategory struct {
	ID    string
	Title string
	Icon  string
	Tasks []string
}

type Catalog struct {
	ChangeTags    []Label
	KeySkills     []Label
	LanguageModes []Label
	Society       []Label
}

type Definition struct {
	Themes       []Theme
	Competencies []Competency
	Categories   []WorkCategory
	Catalog      Catalog
}

// Curriculum is the read-only registry. Accessors hand out copies so callers
// cannot mutate the shared instance.
type Curriculum struct {
	themes       []Theme
	competencies []Competency
	categories   []WorkCategory
	catalog      Catalog

	themeIdx      map[string]int
	competencyIdx map[string]int
	categoryIdx   map[string]int
	taskIdx       map[string]map[string]struct{}
}

func New(def Definition) (*Curriculum, error) {
	c := &Curriculum{
		themes:        make([]Theme, 0, len(def.Themes)),
		competencies:  make([]Competency, 0, len(def.Competencies)),
		categories:    make([]WorkCategory, 0, len(def.Categories)),
		catalog:       copyCatalog(def.Catalog),
		themeIdx:      map[string]int{},
		competencyIdx: map[string]int{},
		categoryIdx:   map[string]int{},
		taskIdx:       map[string]map[string]struct{}{},
	}
	for _, t := range def.Themes {
		c.themes = append(c.themes, copyTheme(t))
	}
	sort.SliceStable(c.themes, func(i, j int) bool {
		if c.themes[i].Order != c.themes[j].Order {
			return c.themes[i].Order < c.themes[j].Order
		}
		return c.themes[i].ID < c.themes[j].ID
	})
	for _, comp := range def.Competencies {
		c.competencies = append(c.competencies, copyCompetency(comp))
	}
	for _, cat := range def.Categories {
		c.categories = append(c.categories, copyCategory(cat))
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Curriculum) index() error {
	for i, t := range c.themes {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("theme at position %d has no id", i)
		}
		if _, ok := c.themeIdx[t.ID]; ok {
			return fmt.Errorf("duplicate theme id: %s", t.ID)
		}
		c.themeIdx[t.ID] = i
	}
	for i, comp := range c.competencies {
		if strings.TrimSpace(comp.ID) == "" {
			return fmt.Errorf("competency at position %d has no id", i)
		}
		if _, ok := c.competencyIdx[comp.ID]; ok {
			return fmt.Errorf("duplicate competency id: %s", comp.ID)
		}
		c.competencyIdx[comp.ID] = i
	}
	for i, cat := range c.categories {
		if strings.TrimSpace(cat.ID) == "" {
			return fmt.Errorf("category at position %d has no id", i)
		}
		if _, ok := c.categoryIdx[cat.ID]; ok {
			return fmt.Errorf("duplicate category id: %s", cat.ID)
		}
		c.categoryIdx[cat.ID] = i
		tasks := make(map[string]struct{}, len(cat.Tasks))
		for _, task := range cat.Tasks {
			if strings.TrimSpace(task) == "" {
				return fmt.Errorf("category %s has an empty task name", cat.ID)
			}
			if _, ok := tasks[task]; ok {
				return fmt.Errorf("category %s lists task %q twice", cat.ID, task)
			}
			tasks[task] = struct{}{}
		}
		c.taskIdx[cat.ID] = tasks
	}
	return nil
}

// Validate checks referential integrity between themes and competencies.
func (c *Curriculum) Validate() error {
	for _, t := range c.themes {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("theme %s has no title", t.ID)
		}
		seen := map[string]struct{}{}
		for _, compID := range t.Mandatory {
			if _, ok := c.competencyIdx[compID]; !ok {
				return fmt.Errorf("theme %s references unknown competency %s", t.ID, compID)
			}
			if _, ok := seen[compID]; ok {
				return fmt.Errorf("theme %s lists competency %s twice", t.ID, compID)
			}
			seen[compID] = struct{}{}
		}
	}
	for _, comp := range c.competencies {
		if comp.ThemeID == "" {
			continue
		}
		if _, ok := c.themeIdx[comp.ThemeID]; !ok {
			return fmt.Errorf("competency %s references unknown theme %s", comp.ID, comp.ThemeID)
		}
	}
	for _, cat := range c.categories {
		if strings.TrimSpace(cat.Title) == "" {
			return fmt.Errorf("category %s has no title", cat.ID)
		}
	}
	return nil
}

// Themes are returned in display order.
func (c *Curriculum) Themes() []Theme {
	out := make([]Theme, 0, len(c.themes))
	for _, t := range c.themes {
		out = append(out, copyTheme(t))
	}
	return out
}

// Competencies are returned in declaration order.
func (c *Curriculum) Competencies() []Competency {
	out := make([]Competency, 0, len(c.competencies))
	for _, comp := range c.competencies {
		out = append(out, copyCompetency(comp))
	}
	return out
}

func (c *Curriculum) Categories() []WorkCategory {
	out := make([]WorkCategory, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, copyCategory(cat))
	}
	return out
}

func (c *Curriculum) Catalog() Catalog {
	return copyCatalog(c.catalog)
}

func (c *Curriculum) Theme(id string) (Theme, bool) {
	i, ok := c.themeIdx[id]
	if !ok {
		return Theme{}, false
	}
	return copyTheme(c.themes[i]), true
}

func (c *Curriculum) Competency(id string) (Competency, bool) {
	i, ok := c.competencyIdx[id]
	if !ok {
		return Competency{}, false
	}
	return copyCompetency(c.competencies[i]), true
}

func (c *Curriculum) Category(id string) (WorkCategory, bool) {
	i, ok := c.categoryIdx[id]
	if !ok {
		return WorkCategory{}, false
	}
	return copyCategory(c.categories[i]), true
}

func (c *Curriculum) HasCompetency(id string) bool {
	_, ok := c.competencyIdx[id]
	return ok
}

func (c *Curriculum) HasTask(categoryID, task string) bool {
	tasks, ok := c.taskIdx[categoryID]
	if !ok {
		return false
	}
	_, ok = tasks[task]
	return ok
}

// Stats summarises registry size for CLI output and logs.
func (c *Curriculum) Stats() (themes, competencies, categories, tasks int) {
	for _, cat := range c.categories {
		tasks += len(cat.Tasks)
	}
	return len(c.themes), len(c.competencies), len(c.categories), tasks
}

func copyTheme(t Theme) Theme {
	t.Mandatory = append([]string(nil), t.Mandatory...)
	return t
}

func copyCompetency(comp Competency) Competency {
	comp.Rings = RingRefs{
		KeySkills:     append([]string(nil), comp.Rings.KeySkills...),
		LanguageModes: append([]string(nil), comp.Rings.LanguageModes...),
		Society:       append([]string(nil), comp.Rings.Society...),
	}
	comp.ChangeTags = append([]ChangeTag(nil), comp.ChangeTags...)
	return comp
}

func copyCategory(cat WorkCategory) WorkCategory {
	cat.Tasks = append([]string(nil), cat.Tasks...)
	return cat
}

func copyCatalog(c Catalog) Catalog {
	return Catalog{
		ChangeTags:    append([]Label(nil), c.ChangeTags...),
		KeySkills:     append([]Label(nil), c.KeySkills...),
		LanguageModes: append([]Label(nil), c.LanguageModes...),
		Society:       append([]Label(nil), c.Society...),
	}
}
