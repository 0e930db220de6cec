package interviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ivdto "preview/internal/modules/interview/dto"
	"preview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type InterviewPort interface {
	List(ctx context.Context, page, size int) (ivdto.InterviewPage, error)
	Create(ctx context.Context, input ivdto.CreateInput) (ivdto.Interview, error)
	Start(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type InterviewsLoadedMsg struct {
	Page ivdto.InterviewPage
	Err  error
}

type InterviewStartedMsg struct {
	ID  int64
	Err error
}

type InterviewDeletedMsg struct {
	ID  int64
	Err error
}

type InterviewCreatedMsg struct {
	Interview ivdto.Interview
	Err       error
}

// BeginSessionMsg asks the app to switch to the session tab.
type BeginSessionMsg struct{ ID int64 }

// ShowResultMsg asks the app to switch to the result tab.
type ShowResultMsg struct{ ID int64 }

// ─── list item ───────────────────────────────────────────────────────────────

type interviewItem struct {
	interview ivdto.Interview
}

func (i interviewItem) Title() string { return i.interview.Title }

func (i interviewItem) Description() string {
	return fmt.Sprintf("#%d  %s  %s  %s", i.interview.ID, i.interview.Position, i.interview.Level, i.interview.Status)
}

func (i interviewItem) FilterValue() string { return i.interview.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    InterviewPort
	list    list.Model
	spinner spinner.Model
	loading bool
	status  string
	width   int
	height  int
}

func New(port InterviewPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Interviews"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadInterviewsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height-2)

	case InterviewsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%d interviews", msg.Page.TotalCount)
		items := make([]list.Item, len(msg.Page.Items))
		for i, iv := range msg.Page.Items {
			items[i] = interviewItem{interview: iv}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case InterviewCreatedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("created #%d %s", msg.Interview.ID, msg.Interview.Title)
		cmds = append(cmds, m.loadInterviewsCmd())

	case InterviewStartedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("interview #%d started", msg.ID)
		cmds = append(cmds, m.loadInterviewsCmd(), func() tea.Msg { return BeginSessionMsg{ID: msg.ID} })

	case InterviewDeletedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("interview #%d deleted", msg.ID)
		cmds = append(cmds, m.loadInterviewsCmd())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if !m.Filtering() {
			switch msg.String() {
			case "enter":
				if iv, ok := m.Selected(); ok {
					return m, func() tea.Msg { return BeginSessionMsg{ID: iv.ID} }
				}
			case "s":
				if iv, ok := m.Selected(); ok {
					return m, m.startCmd(iv.ID)
				}
			case "r":
				if iv, ok := m.Selected(); ok {
					return m, func() tea.Msg { return ShowResultMsg{ID: iv.ID} }
				}
			case "x":
				if iv, ok := m.Selected(); ok {
					return m, m.deleteCmd(iv.ID)
				}
			case "R":
				m.loading = true
				return m, tea.Batch(m.loadInterviewsCmd(), m.spinner.Tick)
			}
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading interviews…")
	}
	var sb strings.Builder
	sb.WriteString(m.list.View())
	sb.WriteString("\n" + theme.Muted.Render(m.status))
	sb.WriteString("\n" + theme.Muted.Render("enter: session  s: start  r: result  x: delete  R: refresh"))
	return sb.String()
}

// Selected returns the interview under the cursor.
func (m Model) Selected() (ivdto.Interview, bool) {
	if item, ok := m.list.SelectedItem().(interviewItem); ok {
		return item.interview, true
	}
	return ivdto.Interview{}, false
}

// Filtering reports whether the list filter is consuming keys.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload triggers a fresh list fetch.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadInterviewsCmd(), m.spinner.Tick)
}

// CreateCmd creates an interview from palette input.
func (m Model) CreateCmd(input ivdto.CreateInput) tea.Cmd {
	return func() tea.Msg {
		iv, err := m.port.Create(context.Background(), input)
		return InterviewCreatedMsg{Interview: iv, Err: err}
	}
}

// StartCmd starts the given interview.
func (m Model) StartCmd(id int64) tea.Cmd { return m.startCmd(id) }

// DeleteCmd deletes the given interview.
func (m Model) DeleteCmd(id int64) tea.Cmd { return m.deleteCmd(id) }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) loadInterviewsCmd() tea.Cmd {
	return func() tea.Msg {
		page, err := m.port.List(context.Background(), 0, 50)
		return InterviewsLoadedMsg{Page: page, Err: err}
	}
}

func (m Model) startCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.port.Start(context.Background(), id)
		return InterviewStartedMsg{ID: id, Err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.port.Delete(context.Background(), id)
		return InterviewDeletedMsg{ID: id, Err: err}
	}
}
