package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exportdto "agencycheck/internal/modules/export/dto"
	journaldto "agencycheck/internal/modules/journal/dto"
	progressdto "agencycheck/internal/modules/progress/dto"
	"agencycheck/internal/ui/components"
	"agencycheck/internal/ui/theme"
	journalview "agencycheck/internal/ui/views/journal"
	progressview "agencycheck/internal/ui/views/progress"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type journalPort interface {
	ListEntries(ctx context.Context, input journaldto.ListEntriesInput) ([]journaldto.EntryOutput, error)
	ListSubjects(ctx context.Context) ([]journaldto.SubjectOutput, error)
}

type reportPort interface {
	Report(ctx context.Context, input progressdto.ReportInput) (progressdto.Report, error)
	WindowModes() []string
}

type exportPort interface {
	Formats(ctx context.Context) ([]exportdto.FormatInfo, error)
	Render(ctx context.Context, input exportdto.RenderInput) (exportdto.RenderOutput, error)
	Export(ctx context.Context, input exportdto.ExportInput) (exportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabJournal tabID = iota
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{"Journal", "Progress"}

// ─── async messages ──────────────────────────────────────────────────────────

type subjectsLoadedMsg struct {
	subjects []journaldto.SubjectOutput
	err      error
}

type exportedMsg struct {
	out exportdto.ExportOutput
	err error
}

type formatsLoadedMsg struct {
	formats []exportdto.FormatInfo
	err     error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Reload  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Reload},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the selected subject and
// window, tab routing, the help overlay and the command palette.
type Model struct {
	journal journalPort
	reports reportPort
	export  exportPort

	journalView  journalview.Model
	progressView progressview.Model

	subjectID string
	input     progressdto.ReportInput

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int

	// initCmd loads a subject chosen at construction time.
	initCmd tea.Cmd
}

// NewModel builds the root model. An empty subjectID selects the first
// journaled subject once the subject list is loaded.
func NewModel(journal journalPort, reports reportPort, export exportPort, subjectID, window string) Model {
	m := Model{
		journal:      journal,
		reports:      reports,
		export:       export,
		journalView:  journalview.New(journal),
		progressView: progressview.New(reports, export),
		subjectID:    subjectID,
		input:        progressdto.ReportInput{SubjectID: subjectID, Window: window},
		activeTab:    tabProgress,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
	if subjectID != "" {
		m.initCmd = m.selectSubject(subjectID)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.initCmd != nil {
		return m.initCmd
	}
	return m.loadSubjectsCmd()
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case subjectsLoadedMsg:
		switch {
		case msg.err != nil:
			m.status = "subjects: " + msg.err.Error()
		case len(msg.subjects) == 0:
			m.status = "journal is empty"
		case m.subjectID == "":
			next := m.selectSubject(msg.subjects[0].SubjectID)
			return m, next
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %s (%d bytes) to %s", msg.out.Format, msg.out.Bytes, msg.out.Path)
		}
		return m, nil

	case formatsLoadedMsg:
		if msg.err != nil {
			m.status = "formats: " + msg.err.Error()
			return m, nil
		}
		names := make([]string, len(msg.formats))
		for i, f := range msg.formats {
			names[i] = f.Name
			if f.Source != exportdto.SourceBuiltin {
				names[i] += " (" + f.Source + ")"
			}
		}
		m.status = "formats: " + strings.Join(names, ", ")
		return m, nil

	case journalview.EntriesLoadedMsg:
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case progressview.LoadedMsg:
		if msg.Err != nil {
			m.status = "report: " + msg.Err.Error()
		} else if len(msg.Report.Warnings) > 0 {
			m.status = fmt.Sprintf("report ready, %d warning(s)", len(msg.Report.Warnings))
		} else {
			m.status = "report ready"
		}
		var cmd tea.Cmd
		m.progressView, cmd = m.progressView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabJournal && m.journalView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			next := m.palette.Open()
			return m, next
		case "r":
			next := m.reload()
			return m, next
		}
	}

	// Spinner ticks go to both views so a background load keeps animating.
	var jCmd, pCmd tea.Cmd
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		if m.activeTab == tabJournal {
			m.journalView, jCmd = m.journalView.Update(msg)
		} else {
			m.progressView, pCmd = m.progressView.Update(msg)
		}
	default:
		m.journalView, jCmd = m.journalView.Update(msg)
		m.progressView, pCmd = m.progressView.Update(msg)
	}
	cmds = append(cmds, jCmd, pCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabJournal:
		content = m.journalView.View()
	default:
		content = m.progressView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "agencycheck  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.subjectID != "" {
		left = theme.Hot.Render("● "+m.subjectID) + " " + theme.Muted.Render("["+m.windowLabel()+"]") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) windowLabel() string {
	switch {
	case m.input.From != "" || m.input.To != "":
		return m.input.From + ".." + m.input.To
	case m.input.Window != "":
		return m.input.Window
	}
	return "default"
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(line string) (tea.Model, tea.Cmd) {
	cmd, usage, ok := components.ParseCommand(line)
	if !ok {
		if usage != "" {
			m.status = usage
		}
		return m, nil
	}

	switch cmd.Name {
	case "subject":
		next := m.selectSubject(cmd.Args[0])
		return m, next

	case "window":
		if !slices.Contains(m.reports.WindowModes(), cmd.Args[0]) {
			m.status = "unknown window: " + cmd.Args[0] + " (" + strings.Join(m.reports.WindowModes(), ", ") + ")"
			return m, nil
		}
		m.input.Window = cmd.Args[0]
		m.input.From, m.input.To = "", ""
		m.activeTab = tabProgress
		next := m.progressView.Load(m.input)
		return m, next

	case "custom":
		m.input.Window = "custom"
		m.input.From, m.input.To = cmd.Args[0], cmd.Args[1]
		m.activeTab = tabProgress
		next := m.progressView.Load(m.input)
		return m, next

	case "export":
		if m.subjectID == "" {
			m.status = "no subject selected"
			return m, nil
		}
		input := exportdto.ExportInput{RenderInput: exportdto.RenderInput{Report: m.input, Format: cmd.Args[0]}}
		if len(cmd.Args) == 2 {
			input.Path = cmd.Args[1]
		}
		m.status = "exporting " + cmd.Args[0] + "…"
		return m, m.exportCmd(input)

	case "formats":
		return m, m.formatsCmd()

	case "reload":
		next := m.reload()
		return m, next
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) selectSubject(subjectID string) tea.Cmd {
	m.subjectID = subjectID
	m.input.SubjectID = subjectID
	m.status = "subject " + subjectID
	return tea.Batch(m.journalView.Load(subjectID), m.progressView.Load(m.input))
}

func (m *Model) reload() tea.Cmd {
	if m.subjectID == "" {
		return m.loadSubjectsCmd()
	}
	m.status = "reloading"
	return tea.Batch(m.journalView.Load(m.subjectID), m.progressView.Load(m.input))
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.journalView, _ = m.journalView.Update(sz)
	m.progressView, _ = m.progressView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadSubjectsCmd() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.journal.ListSubjects(context.Background())
		return subjectsLoadedMsg{subjects: subjects, err: err}
	}
}

func (m Model) exportCmd(input exportdto.ExportInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.export.Export(context.Background(), input)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) formatsCmd() tea.Cmd {
	return func() tea.Msg {
		formats, err := m.export.Formats(context.Background())
		return formatsLoadedMsg{formats: formats, err: err}
	}
}
