package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ivdto "preview/internal/modules/interview/dto"
	ivin "preview/internal/modules/interview/port/in"
	apperrors "preview/internal/platform/errors"
	"preview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	BeginSession(ctx context.Context, id int64) (ivin.Session, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionStartedMsg struct {
	Gen     int
	Session ivin.Session
	Err     error
}

type AnswerSubmittedMsg struct {
	Gen int
	Out ivdto.SubmitOutput
	Err error
}

// SessionCompleteMsg asks the app to switch to the result tab.
type SessionCompleteMsg struct{ InterviewID int64 }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        SessionPort
	interviewID int64
	session     ivin.Session
	snapshot    ivdto.SessionSnapshot

	input      textarea.Model
	spinner    spinner.Model
	loading    bool
	submitting bool
	status     string

	// gen guards against results from an abandoned session arriving
	// after a new one began.
	gen int

	width  int
	height int
}

func New(port SessionPort) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer…"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, input: ta, spinner: sp}
}

// Open starts a session for the given interview, replacing any session in
// progress.
func (m *Model) Open(id int64) tea.Cmd {
	m.interviewID = id
	m.session = nil
	m.snapshot = ivdto.SessionSnapshot{}
	m.loading = true
	m.submitting = false
	m.status = ""
	m.gen++
	m.input.Reset()

	port := m.port
	gen := m.gen
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		sess, err := port.BeginSession(context.Background(), id)
		return SessionStartedMsg{Gen: gen, Session: sess, Err: err}
	})
}

func (m Model) Active() bool { return m.session != nil || m.loading }

// Typing reports whether the answer box is consuming keystrokes, so the
// app can yield its global bindings.
func (m Model) Typing() bool { return m.input.Focused() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(m.width - 6)
		m.input.SetHeight(5)

	case SessionStartedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.session = msg.Session
		m.snapshot = msg.Session.Snapshot()
		m.status = ""
		cmds = append(cmds, m.input.Focus())

	case AnswerSubmittedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.submitting = false
		if msg.Err != nil {
			m.status = submitErrorText(msg.Err)
			return m, nil
		}
		m.snapshot = m.session.Snapshot()
		m.status = ""
		m.input.Reset()
		m.input.Blur()
		if msg.Out.Completed {
			interviewID := m.interviewID
			cmds = append(cmds, func() tea.Msg { return SessionCompleteMsg{InterviewID: interviewID} })
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.session == nil {
			break
		}
		switch msg.String() {
		case "ctrl+s":
			return m, m.submitCmd()
		case "esc":
			m.input.Blur()
			return m, nil
		case "i":
			if !m.input.Focused() && !m.snapshot.HasFeedback {
				return m, m.input.Focus()
			}
		case "enter":
			if m.snapshot.HasFeedback {
				snap, more := m.session.Advance()
				m.snapshot = snap
				if !more {
					interviewID := m.interviewID
					return m, func() tea.Msg { return SessionCompleteMsg{InterviewID: interviewID} }
				}
				return m, m.input.Focus()
			}
		}
	}

	if m.session != nil && !m.snapshot.HasFeedback && m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Preparing session…")
	}
	if m.session == nil {
		hint := "Pick an interview and press enter to begin a session"
		if m.status != "" {
			hint = m.status
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render(hint))
	}

	snap := m.snapshot
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(snap.Title) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d/%d answered", snap.AnsweredCount, snap.Total)) + "\n\n")

	switch snap.State {
	case "complete":
		sb.WriteString(theme.Hot.Render("Session complete.") + "\n")
		sb.WriteString(theme.Muted.Render("press r on the interview to view the result"))
		return sb.String()
	case "no-questions":
		sb.WriteString(theme.Muted.Render("This interview has no questions yet. Start it first."))
		return sb.String()
	}

	if snap.HasCurrent {
		badge := theme.Badge.Render(snap.Current.PhaseLabel)
		if snap.Current.IsFollowUp {
			badge += theme.Muted.Render(" follow-up")
		}
		sb.WriteString(badge + "\n")
		sb.WriteString(snap.Current.Content + "\n\n")
	}

	if snap.HasFeedback {
		panel := theme.Pane.Width(m.width - 4)
		var fb strings.Builder
		fb.WriteString(theme.Score(snap.Feedback.Score) + "\n\n")
		fb.WriteString(snap.Feedback.Feedback + "\n")
		if snap.SubmittedText != "" {
			fb.WriteString("\n" + theme.Muted.Render("your answer: "+snap.SubmittedText))
		}
		sb.WriteString(panel.Render(fb.String()) + "\n")
		if snap.Feedback.HasFollowUp {
			sb.WriteString(theme.Muted.Render("enter: continue to the follow-up question"))
		} else {
			sb.WriteString(theme.Muted.Render("enter: next question"))
		}
		return sb.String()
	}

	sb.WriteString(m.input.View() + "\n")
	if m.submitting {
		sb.WriteString(m.spinner.View() + " Submitting…")
	} else if m.input.Focused() {
		sb.WriteString(theme.Muted.Render("ctrl+s: submit  esc: leave the answer box"))
	} else {
		sb.WriteString(theme.Muted.Render("i: type your answer  ctrl+s: submit"))
	}
	if m.status != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.status))
	}
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) submitCmd() tea.Cmd {
	if m.submitting {
		return nil
	}
	content := m.input.Value()
	if strings.TrimSpace(content) == "" {
		m.status = "answer is empty"
		return nil
	}
	m.submitting = true
	m.status = ""

	gen := m.gen
	session := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		out, err := session.Submit(context.Background(), content)
		return AnswerSubmittedMsg{Gen: gen, Out: out, Err: err}
	})
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEmptyAnswer):
		return "answer is empty"
	case errors.Is(err, apperrors.ErrSubmissionInFlight):
		return "submission already in progress"
	case errors.Is(err, apperrors.ErrSessionComplete):
		return "session is already complete"
	default:
		return err.Error()
	}
}
