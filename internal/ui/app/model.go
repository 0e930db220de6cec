package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "preview/internal/modules/auth/dto"
	ivdto "preview/internal/modules/interview/dto"
	ivin "preview/internal/modules/interview/port/in"
	resdto "preview/internal/modules/result/dto"
	"preview/internal/ui/components"
	"preview/internal/ui/theme"
	interviewsview "preview/internal/ui/views/interviews"
	resultview "preview/internal/ui/views/result"
	sessionview "preview/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type authPort interface {
	Whoami(ctx context.Context) (authdto.IdentityOutput, error)
	Logout(ctx context.Context) error
}

type interviewPort interface {
	List(ctx context.Context, page, size int) (ivdto.InterviewPage, error)
	Create(ctx context.Context, input ivdto.CreateInput) (ivdto.Interview, error)
	Start(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	BeginSession(ctx context.Context, id int64) (ivin.Session, error)
}

type resultPort interface {
	Load(ctx context.Context, interviewID int64, onStage func(resdto.LoadingStage)) (resdto.ReportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabInterviews tabID = iota
	tabSession
	tabResult
	tabCount
)

var tabLabels = [tabCount]string{"Interviews", "Session", "Result"}

// ─── async messages ───────────────────────────────────────────────────────────

type identityLoadedMsg struct {
	identity authdto.IdentityOutput
	err      error
}

type loggedOutMsg struct{ err error }

// forcedLogoutMsg arrives when token renewal fails and the credential
// store was cleared underneath us.
type forcedLogoutMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Start   key.Binding
	Result  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "begin session")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start interview")),
		Result:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "show result")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Start, k.Result},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the signed-in
// identity, the global help overlay, and the command palette. Business
// logic is delegated to port interfaces; rendering to sub-views.
type Model struct {
	auth authPort

	ivView  interviewsview.Model
	sesView sessionview.Model
	resView resultview.Model

	// forcedLogout delivers renewal-failure notifications from the HTTP
	// client's goroutines into the event loop.
	forcedLogout chan struct{}

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	identity  authdto.IdentityOutput
	signedIn  bool
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(auth authPort, interview interviewPort, result resultPort, forcedLogout chan struct{}) Model {
	return Model{
		auth:         auth,
		ivView:       interviewsview.New(interviewPortBridge{p: interview}),
		sesView:      sessionview.New(sessionPortBridge{p: interview}),
		resView:      resultview.New(resultPortBridge{p: result}),
		forcedLogout: forcedLogout,
		activeTab:    tabInterviews,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.ivView.Init(),
		m.loadIdentityCmd(),
		m.waitForcedLogoutCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
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

	case identityLoadedMsg:
		if msg.err != nil {
			m.signedIn = false
			m.status = "not signed in: run `preview login` first"
		} else {
			m.signedIn = true
			m.identity = msg.identity
			m.status = "signed in as " + msg.identity.MemberID
		}

	case loggedOutMsg:
		m.signedIn = false
		m.identity = authdto.IdentityOutput{}
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
		} else {
			m.status = "logged out"
		}

	case forcedLogoutMsg:
		m.signedIn = false
		m.identity = authdto.IdentityOutput{}
		m.status = "session expired: sign in again"
		cmds = append(cmds, m.waitForcedLogoutCmd())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// Bubbled up by the interviews view so the app can switch tabs.
	case interviewsview.BeginSessionMsg:
		m.activeTab = tabSession
		m.status = fmt.Sprintf("session for interview #%d", msg.ID)
		return m, m.sesView.Open(msg.ID)

	case interviewsview.ShowResultMsg:
		m.activeTab = tabResult
		m.status = fmt.Sprintf("result for interview #%d", msg.ID)
		return m, m.resView.Open(msg.ID)

	case sessionview.SessionCompleteMsg:
		m.activeTab = tabResult
		m.status = "session complete"
		return m, m.resView.Open(msg.InterviewID)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield while a list filter or the answer box is consuming keys.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabInterviews:
		m.ivView, tabCmd = m.ivView.Update(msg)
	case tabSession:
		m.sesView, tabCmd = m.sesView.Update(msg)
	case tabResult:
		m.resView, tabCmd = m.resView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabInterviews:
		return m.ivView.View()
	case tabSession:
		return m.sesView.View()
	case tabResult:
		return m.resView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "pre-view  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.signedIn {
		left = theme.Hot.Render("● "+m.identity.MemberID) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "interview:create":
		if len(parts) < 2 {
			m.status = "usage: interview:create <title> [type] [position] [level]"
			return m, nil
		}
		in := ivdto.CreateInput{Title: parts[1], Type: "TECHNICAL", Position: "BACKEND", Level: "JUNIOR"}
		if len(parts) >= 3 {
			in.Type = strings.ToUpper(parts[2])
		}
		if len(parts) >= 4 {
			in.Position = strings.ToUpper(parts[3])
		}
		if len(parts) >= 5 {
			in.Level = strings.ToUpper(parts[4])
		}
		m.activeTab = tabInterviews
		return m, m.ivView.CreateCmd(in)

	case "interview:start":
		id, ok := paletteID(parts, m.ivView)
		if !ok {
			m.status = "usage: interview:start <id>"
			return m, nil
		}
		m.activeTab = tabInterviews
		return m, m.ivView.StartCmd(id)

	case "interview:delete":
		id, ok := paletteID(parts, m.ivView)
		if !ok {
			m.status = "usage: interview:delete <id>"
			return m, nil
		}
		m.activeTab = tabInterviews
		return m, m.ivView.DeleteCmd(id)

	case "interview:refresh":
		m.activeTab = tabInterviews
		return m, m.ivView.Reload()

	case "session:begin":
		id, ok := paletteID(parts, m.ivView)
		if !ok {
			m.status = "usage: session:begin <id>"
			return m, nil
		}
		m.activeTab = tabSession
		return m, m.sesView.Open(id)

	case "result:show":
		id, ok := paletteID(parts, m.ivView)
		if !ok {
			m.status = "usage: result:show <id>"
			return m, nil
		}
		m.activeTab = tabResult
		return m, m.resView.Open(id)

	case "auth:whoami":
		return m, m.loadIdentityCmd()

	case "auth:logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// paletteID resolves the target interview: an explicit numeric argument
// wins, the list selection is the fallback.
func paletteID(parts []string, iv interviewsview.Model) (int64, bool) {
	if len(parts) >= 2 {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		return id, err == nil
	}
	if selected, ok := iv.Selected(); ok {
		return selected.ID, true
	}
	return 0, false
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether the active tab is consuming free-form
// keystrokes, in which case global bindings must yield.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabInterviews:
		return m.ivView.Filtering()
	case tabSession:
		return m.sesView.Typing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.ivView, _ = m.ivView.Update(sz)
	m.sesView, _ = m.sesView.Update(sz)
	m.resView, _ = m.resView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadIdentityCmd() tea.Cmd {
	return func() tea.Msg {
		identity, err := m.auth.Whoami(context.Background())
		return identityLoadedMsg{identity: identity, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.auth.Logout(context.Background())}
	}
}

func (m Model) waitForcedLogoutCmd() tea.Cmd {
	ch := m.forcedLogout
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		<-ch
		return forcedLogoutMsg{}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface
// needed by a specific sub-view.

type interviewPortBridge struct{ p interviewPort }

func (b interviewPortBridge) List(ctx context.Context, page, size int) (ivdto.InterviewPage, error) {
	return b.p.List(ctx, page, size)
}
func (b interviewPortBridge) Create(ctx context.Context, input ivdto.CreateInput) (ivdto.Interview, error) {
	return b.p.Create(ctx, input)
}
func (b interviewPortBridge) Start(ctx context.Context, id int64) error {
	return b.p.Start(ctx, id)
}
func (b interviewPortBridge) Delete(ctx context.Context, id int64) error {
	return b.p.Delete(ctx, id)
}

type sessionPortBridge struct{ p interviewPort }

func (b sessionPortBridge) BeginSession(ctx context.Context, id int64) (ivin.Session, error) {
	return b.p.BeginSession(ctx, id)
}

type resultPortBridge struct{ p resultPort }

func (b resultPortBridge) Load(ctx context.Context, interviewID int64, onStage func(resdto.LoadingStage)) (resdto.ReportOutput, error) {
	return b.p.Load(ctx, interviewID, onStage)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
