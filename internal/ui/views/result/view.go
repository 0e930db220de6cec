package result

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	resdto "preview/internal/modules/result/dto"
	"preview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ResultPort interface {
	Load(ctx context.Context, interviewID int64, onStage func(resdto.LoadingStage)) (resdto.ReportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StageMsg struct {
	Gen   int
	Stage resdto.LoadingStage
}

type ReportLoadedMsg struct {
	Gen    int
	Report resdto.ReportOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the staged loading screen while the report loads, then the
// rendered report. The staging itself (message rotation, minimum display
// time) runs inside the port's Load; stages arrive over a channel that is
// pumped back into the event loop one message at a time.
type Model struct {
	port    ResultPort
	stages  chan resdto.LoadingStage
	stage   resdto.LoadingStage
	report  resdto.ReportOutput
	loaded  bool
	loading bool
	errText string

	// gen guards against a slow load for one interview settling after
	// another was requested.
	gen int

	view    viewport.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(port ResultPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, view: vp, spinner: sp}
}

// Open starts loading the report for the given interview.
func (m *Model) Open(interviewID int64) tea.Cmd {
	m.loaded = false
	m.loading = true
	m.errText = ""
	m.stage = resdto.LoadingStage{}
	m.gen++

	stages := make(chan resdto.LoadingStage, 8)
	m.stages = stages
	port := m.port
	gen := m.gen

	loadCmd := func() tea.Msg {
		report, err := port.Load(context.Background(), interviewID, func(s resdto.LoadingStage) {
			// Non-blocking: once this load is abandoned nothing drains
			// the channel, and the orchestrator must not hang on it.
			select {
			case stages <- s:
			default:
			}
		})
		close(stages)
		return ReportLoadedMsg{Gen: gen, Report: report, Err: err}
	}
	return tea.Batch(loadCmd, m.waitStageCmd(), m.spinner.Tick)
}

func (m Model) Active() bool { return m.loading || m.loaded || m.errText != "" }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = m.width - 4
		m.view.Height = m.height - 2

	case StageMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.stage = msg.Stage
		cmds = append(cmds, m.waitStageCmd())

	case ReportLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.loaded = true
		m.report = msg.Report
		m.view.SetContent(m.renderReport())
		m.view.GotoTop()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.loaded {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		var sb strings.Builder
		sb.WriteString(m.spinner.View() + " " + theme.Title.Render(m.stage.Title) + "\n")
		sb.WriteString(theme.Muted.Render(m.stage.Subtitle) + "\n\n")
		sb.WriteString(progressBar(m.stage.Step, m.stage.Steps))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
	}
	if m.errText != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Hot.Render("Could not load the result: ")+m.errText)
	}
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Press r on an interview to load its result"))
	}
	return m.view.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) waitStageCmd() tea.Cmd {
	stages := m.stages
	gen := m.gen
	return func() tea.Msg {
		stage, ok := <-stages
		if !ok {
			return nil
		}
		return StageMsg{Gen: gen, Stage: stage}
	}
}

func progressBar(step, steps int) string {
	if steps == 0 {
		return ""
	}
	const width = 32
	filled := width * step / steps
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(theme.Lavender).Render(bar)
}

func (m Model) renderReport() string {
	md := reportMarkdown(m.report)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.view.Width-2),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func reportMarkdown(r resdto.ReportOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	if r.FromCache {
		sb.WriteString("> showing a locally cached copy\n\n")
	}
	fmt.Fprintf(&sb, "**%s · %s**", r.Type, r.Position)
	if len(r.TechStacks) > 0 {
		fmt.Fprintf(&sb, " · %s", strings.Join(r.TechStacks, ", "))
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "- answered: %d / %d\n", r.AnsweredQuestions, r.TotalQuestions)
	fmt.Fprintf(&sb, "- average score: %.1f\n\n", r.AverageScore)

	if r.HasAIReport {
		sb.WriteString("## Overall Evaluation\n\n")
		fmt.Fprintf(&sb, "**Score: %d**\n\n", r.AIReport.OverallScore)
		sb.WriteString(r.AIReport.Summary + "\n\n")
		writeList(&sb, "Strengths", r.AIReport.Strengths)
		writeList(&sb, "Improvements", r.AIReport.Improvements)
		writeList(&sb, "Recommended Topics", r.AIReport.RecommendedTopics)
	}

	for _, phase := range r.Phases {
		fmt.Fprintf(&sb, "## %s\n\n", phase.Label)
		for _, e := range phase.Entries {
			fmt.Fprintf(&sb, "**Q%d. %s**\n\n", e.Sequence, e.Question)
			if !e.Answered {
				sb.WriteString("_not answered_\n\n")
				continue
			}
			fmt.Fprintf(&sb, "%s\n\n", e.Answer)
			fmt.Fprintf(&sb, "> %s (score %d)\n\n", e.Feedback, e.Score)
		}
	}
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
