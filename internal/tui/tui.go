// Package tui is a hot-seat terminal client: every seat plays from the same
// keyboard and the table shows the hole cards of whoever is to act.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/money"
	"github.com/lox/pokerbirds/poker"
)

// HandSink receives completed hands, e.g. a hand history writer.
type HandSink interface {
	WriteHands(gameID string, records []game.HandRecord) error
}

// Model is the Bubble Tea model for a local table.
type Model struct {
	session *game.Session
	logger  *log.Logger
	gameID  string
	sink    HandSink

	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string
	focusedPane int // 0 = log, 1 = input

	width       int
	height      int
	initialized bool
	quitting    bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger.WithPrefix("tui") }
}

// WithHandSink sends completed hands to sink under gameID.
func WithHandSink(gameID string, sink HandSink) Option {
	return func(m *Model) {
		m.gameID = gameID
		m.sink = sink
	}
}

// NewModel creates a model playing session.
func NewModel(session *game.Session, opts ...Option) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "start, check, call, raise 2.50, fold"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = bold.Foreground(colorFocused)
	ti.Prompt = "> "

	m := &Model{
		session:     session,
		logger:      log.Default().WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.addLog(hintStyle.Render(helpText))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.Execute(input) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute runs one prompt command against the session and reports whether
// the user asked to quit.
func (m *Model) Execute(input string) bool {
	cmd, err := parseCommand(input)
	if err != nil {
		m.addLog(rejectedStyle.Render(err.Error()))
		return false
	}

	switch cmd.name {
	case "quit":
		return true
	case "help":
		m.addLog(hintStyle.Render(helpText))
	case "start":
		out, err := m.session.StartHand()
		m.report(out, err)
	case "end":
		m.session.EndHand()
		m.addLog(tableEvtStyle.Render(m.session.Message()))
	case "reset":
		m.session.ResetToLobby()
		m.addLog(tableEvtStyle.Render("Table reset to the lobby"))
	default:
		seat, ok := m.session.Turn()
		if !ok {
			m.addLog(rejectedStyle.Render("no hand underway, type 'start'"))
			return false
		}
		kind, _ := cmd.actionKind()
		out, err := m.session.ApplyAction(game.ActionRequest{Seat: seat, Kind: kind, Amount: cmd.amount})
		if err == nil {
			m.addLog(fmt.Sprintf("P%d %s", seat, describe(kind, cmd.amount)))
		}
		m.report(out, err)
	}
	return false
}

func describe(kind game.ActionKind, amount int64) string {
	if kind == game.ActionRaise {
		return "raises to " + money.FormatCents(amount)
	}
	return string(kind) + "s"
}

func (m *Model) report(out game.Outcome, err error) {
	var invariant *game.InvariantError
	switch {
	case errors.As(err, &invariant):
		m.logger.Error("Hand aborted", "error", err)
		m.addLog(rejectedStyle.Render(err.Error()))
	case err != nil:
		m.addLog(rejectedStyle.Render(err.Error()))
		return
	}
	if out.Message != "" {
		m.addLog(outcomeStyle.Render(out.Message))
	}
	if m.sink != nil && len(out.Completed) > 0 {
		if err := m.sink.WriteHands(m.gameID, out.Completed); err != nil {
			m.logger.Error("Failed to write hand history", "error", err)
			m.addLog(rejectedStyle.Render("hand history: " + err.Error()))
		}
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the log entries written so far.
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderFor(1)).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderFor(0)).
		Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Top, top, actionPane)
}

func (m *Model) borderFor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return colorFocused
	}
	return colorMuted
}

func (m *Model) renderSidebar() string {
	v := m.session.View(0)
	var b strings.Builder

	b.WriteString(handTitleStyle.Render(fmt.Sprintf(" Hand #%d ", v.HandNumber)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Blinds %s/%s  %s deck\n", money.FormatCents(v.SmallBlind), money.FormatCents(v.BigBlind), v.DeckColor)
	b.WriteString(potStyle.Render("Pot: " + money.FormatCents(v.Pot)))
	b.WriteString("\n")
	if len(v.Board) > 0 {
		b.WriteString("Board: " + formatCards(v.Board) + "\n")
	}
	b.WriteString("\n")
	for _, p := range v.Players {
		marker := "  "
		switch {
		case p.ID == v.Turn:
			marker = "> "
		case p.ID == v.Dealer:
			marker = "D "
		}
		line := fmt.Sprintf("%sP%d %8s", marker, p.ID, money.FormatCents(p.Stack))
		if p.PotCommitment > 0 {
			line += fmt.Sprintf(" (%s)", money.FormatCents(p.PotCommitment))
		}
		switch {
		case p.Busted:
			line = idleSeatStyle.Render(line + " busted")
		case v.GameUnderway && !p.InGame:
			line = idleSeatStyle.Render(line + " folded")
		case p.ID == v.Turn:
			line = actingSeatStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	seat, ok := m.session.Turn()
	if ok {
		v := m.session.View(seat)
		cards := v.Players[seat-1].Cards
		b.WriteString(holeCardsStyle.Render(fmt.Sprintf("P%d to act  Hand: %s", seat, formatCards(cards))))
		b.WriteString("\n")
		b.WriteString(renderOptions(m.session.Options()))
	} else {
		b.WriteString(holeCardsStyle.Render(m.session.Message()))
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	return b.String()
}

func renderOptions(opts game.ActionOptions) string {
	var actions []string
	for _, kind := range opts.Actions {
		switch kind {
		case game.ActionFold:
			actions = append(actions, foldStyle.Render("[fold]"))
		case game.ActionCheck:
			actions = append(actions, passiveStyle.Render("[check]"))
		case game.ActionCall:
			actions = append(actions, passiveStyle.Render("[call "+money.FormatCents(opts.CallAmount)+"]"))
		case game.ActionRaise:
			actions = append(actions, raiseStyle.Render(fmt.Sprintf("[raise %s-%s]",
				money.FormatCents(opts.MinRaiseTo), money.FormatCents(opts.MaxRaiseTo))))
		}
	}
	return optionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

func formatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Suit.IsRed() {
			formatted = append(formatted, redSuitStyle.Render(c.Pretty()))
		} else {
			formatted = append(formatted, blackSuitStyle.Render(c.Pretty()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
