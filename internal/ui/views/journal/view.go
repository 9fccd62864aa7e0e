package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "agencycheck/internal/modules/journal/dto"
	"agencycheck/internal/ui/theme"
)

// Port is the part of the journal usecase this view reads.
type Port interface {
	ListEntries(ctx context.Context, input journaldto.ListEntriesInput) ([]journaldto.EntryOutput, error)
}

type EntriesLoadedMsg struct {
	SubjectID string
	Entries   []journaldto.EntryOutput
	Err       error
}

type entryItem struct {
	entry journaldto.EntryOutput
}

func (i entryItem) Title() string {
	when := i.entry.CreatedAt
	if i.entry.Date != nil {
		when = *i.entry.Date
	}
	head := i.entry.ThemeID
	if head == "" {
		head = i.entry.CategoryID
	}
	if head == "" {
		head = "free practice"
	}
	return when.Format("2006-01-02") + "  " + head
}

func (i entryItem) Description() string {
	ids := make([]string, 0, len(i.entry.Competencies))
	for _, c := range i.entry.Competencies {
		ids = append(ids, c.ID)
	}
	desc := fmt.Sprintf("%s  %gh", i.entry.Status, i.entry.HoursOnCompetencies+i.entry.HoursOnCategory)
	if len(ids) > 0 {
		desc += "  " + strings.Join(ids, " ")
	}
	return desc
}

func (i entryItem) FilterValue() string {
	return i.entry.ThemeID + " " + i.entry.CategoryID + " " + i.entry.Note
}

type Model struct {
	port      Port
	subjectID string
	list      list.Model
	preview   viewport.Model
	spinner   spinner.Model
	loading   bool
	err       error
	width     int
	height    int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Journal"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, preview: vp, spinner: sp}
}

// Load fetches the subject's entries. The returned Cmd produces an EntriesLoadedMsg.
func (m *Model) Load(subjectID string) tea.Cmd {
	m.subjectID = subjectID
	if subjectID == "" {
		return nil
	}
	m.loading = true
	m.list.Title = "Journal: " + subjectID
	return tea.Batch(m.loadCmd(subjectID), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case EntriesLoadedMsg:
		if msg.SubjectID != m.subjectID {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Select(0)
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		prevIdx := m.list.Index()
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
			m.preview.GotoTop()
		}
		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	switch {
	case m.subjectID == "":
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No subject selected. Use :subject <id>"))
	case m.loading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading entries…")
	case m.err != nil:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("Error: "+m.err.Error()))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return theme.Muted.Render("No entries yet")
	}
	e := item.entry
	var sb strings.Builder
	field := func(label, value string) {
		if value != "" {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-10s", label)) + value + "\n")
		}
	}
	sb.WriteString(theme.Title.Render(item.Title()) + "\n\n")
	field("id:", e.ID)
	field("status:", e.Status)
	field("theme:", e.ThemeID)
	for _, c := range e.Competencies {
		line := c.ID
		if c.Hours != nil {
			line += fmt.Sprintf(" %gh", *c.Hours)
		}
		if c.Status != "" {
			line += " (" + c.Status + ")"
		}
		field("comp:", line)
	}
	field("category:", e.CategoryID)
	field("tasks:", strings.Join(e.Tasks, ", "))
	field("hours:", fmt.Sprintf("%g on competencies, %g on category", e.HoursOnCompetencies, e.HoursOnCategory))
	field("where:", e.Where)
	field("how:", e.How)
	field("tags:", strings.Join(e.Tags, ", "))
	if e.Note != "" {
		sb.WriteString("\n" + e.Note + "\n")
	}
	if e.TeacherNote != "" {
		sb.WriteString("\n" + theme.Hot.Render("Teacher: ") + e.TeacherNote + "\n")
	}
	if e.TrainerNote != "" {
		sb.WriteString("\n" + theme.Hot.Render("Trainer: ") + e.TrainerNote + "\n")
	}
	return sb.String()
}

func (m Model) loadCmd(subjectID string) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.ListEntries(context.Background(), journaldto.ListEntriesInput{SubjectID: subjectID})
		return EntriesLoadedMsg{SubjectID: subjectID, Entries: entries, Err: err}
	}
}
