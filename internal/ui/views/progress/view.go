package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	exportdto "agencycheck/internal/modules/export/dto"
	progressdto "agencycheck/internal/modules/progress/dto"
	"agencycheck/internal/ui/theme"
)

// ReportPort computes the report for the header figures.
type ReportPort interface {
	Report(ctx context.Context, input progressdto.ReportInput) (progressdto.Report, error)
}

// RenderPort renders the same report as markdown for the body.
type RenderPort interface {
	Render(ctx context.Context, input exportdto.RenderInput) (exportdto.RenderOutput, error)
}

type LoadedMsg struct {
	Input    progressdto.ReportInput
	Report   progressdto.Report
	Markdown string
	Err      error
}

// Model shows the report for one subject and window.
type Model struct {
	reports  ReportPort
	renderer RenderPort
	input    progressdto.ReportInput
	report   progressdto.Report
	markdown string
	glamour  *glamour.TermRenderer
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	err      error
	width    int
	height   int
}

func New(reports ReportPort, renderer RenderPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{reports: reports, renderer: renderer, viewport: viewport.New(0, 0), spinner: sp}
}

// Load recomputes the report. The returned Cmd produces a LoadedMsg.
func (m *Model) Load(input progressdto.ReportInput) tea.Cmd {
	m.input = input
	if input.SubjectID == "" {
		return nil
	}
	m.loading = true
	return tea.Batch(m.loadCmd(input), m.spinner.Tick)
}

func (m Model) Input() progressdto.ReportInput { return m.input }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.markdown != "" {
			m.viewport.SetContent(m.renderBody())
		}

	case LoadedMsg:
		if msg.Input != m.input {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.report = msg.Report
			m.markdown = msg.Markdown
			m.viewport.SetContent(m.renderBody())
			m.viewport.GotoTop()
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	bodyH := m.height - lipgloss.Height(header)
	if bodyH < 1 {
		bodyH = 1
	}
	switch {
	case m.input.SubjectID == "":
		return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No subject selected. Use :subject <id>")))
	case m.loading:
		return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Computing report…"))
	case m.err != nil:
		return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("Error: "+m.err.Error())))
	}
	vp := m.viewport
	vp.Height = bodyH
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View())
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-3)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.glamour = r
	}
}

func (m Model) renderHeader() string {
	if m.input.SubjectID == "" || m.report.SubjectID == "" {
		return theme.Title.Render("Progress") + "\n"
	}
	r := m.report
	parts := []string{
		theme.Title.Render(r.SubjectID),
		theme.Muted.Render("[" + r.Window.Label + "]"),
		theme.Bar(r.OverallCompetencyPct, 20),
		fmt.Sprintf("%d%%", r.OverallCompetencyPct),
		theme.Muted.Render(fmt.Sprintf("%d entries", r.Totals.Entries)),
	}
	if r.Window.Fallback {
		parts = append(parts, theme.Hot.Render("window fell back to all"))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderBody() string {
	if m.glamour != nil {
		if rendered, err := m.glamour.Render(m.markdown); err == nil {
			return rendered
		}
	}
	return m.markdown
}

func (m Model) loadCmd(input progressdto.ReportInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		report, err := m.reports.Report(ctx, input)
		if err != nil {
			return LoadedMsg{Input: input, Err: err}
		}
		out, err := m.renderer.Render(ctx, exportdto.RenderInput{Report: input, Format: "markdown"})
		if err != nil {
			return LoadedMsg{Input: input, Err: err}
		}
		return LoadedMsg{Input: input, Report: report, Markdown: string(out.Content)}
	}
}
