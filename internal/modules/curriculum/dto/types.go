package dto

type ThemeOutput struct {
	ID        string   `json:"id"`
	Order     int      `json:"order"`
	Title     string   `json:"title"`
	Mandatory []string `json:"mandatory"`
}

type CompetencyOutput struct {
	ID            string   `json:"id"`
	ThemeID       string   `json:"themeId"`
	Text          string   `json:"text"`
	KeySkills     []string `json:"keySkills,omitempty"`
	LanguageModes []string `json:"languageModes,omitempty"`
	Society       []string `json:"society,omitempty"`
	ChangeTags    []string `json:"changeTags,omitempty"`
}

type CategoryOutput struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Icon  string   `json:"icon"`
	Tasks []string `json:"tasks"`
}

type CurriculumOutput struct {
	Source       string             `json:"source"`
	Themes       []ThemeOutput      `json:"themes"`
	Competencies []CompetencyOutput `json:"competencies"`
	Categories   []CategoryOutput   `json:"categories"`
}

type InitInput struct {
	Overwrite bool
}

type InitOutput struct {
	Path string
}
