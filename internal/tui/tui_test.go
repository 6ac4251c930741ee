package tui

import (
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	gameID  string
	records []game.HandRecord
}

func (s *recordingSink) WriteHands(gameID string, records []game.HandRecord) error {
	s.gameID = gameID
	s.records = append(s.records, records...)
	return nil
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *game.Session) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	session, err := game.NewSession(
		game.Config{Seats: 2, BuyIn: 2000, SmallBlind: 50, BigBlind: 100},
		game.WithRand(randutil.New(7)),
		game.WithLogger(logger),
	)
	require.NoError(t, err)
	return NewModel(session, append([]Option{WithLogger(logger)}, opts...)...), session
}

func lastLog(m *Model) string {
	entries := m.Log()
	return entries[len(entries)-1]
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input  string
		want   command
		errMsg string
	}{
		{input: "call", want: command{name: "call"}},
		{input: "  C ", want: command{name: "call"}},
		{input: "x", want: command{name: "check"}},
		{input: "deal", want: command{name: "start"}},
		{input: "raise 2.50", want: command{name: "raise", amount: 250}},
		{input: "raise to 4", want: command{name: "raise", amount: 400}},
		{input: "bet 1", want: command{name: "raise", amount: 100}},
		{input: "raise", errMsg: "usage: raise <amount>"},
		{input: "raise lots", errMsg: `invalid amount "lots"`},
		{input: "cal", errMsg: `did you mean "call"?`},
		{input: "chek", errMsg: `did you mean "check"?`},
		{input: "xyzzy", errMsg: `unknown command "xyzzy"`},
		{input: "", errMsg: "type a command"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCommand(tt.input)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestOnlyCloseMatches(t *testing.T) {
	assert.Equal(t, "fold", suggest("fodl"))
	assert.Equal(t, "", suggest("xyzzy"))
}

func TestExecuteRequiresHand(t *testing.T) {
	m, _ := newTestModel(t)

	assert.False(t, m.Execute("call"))
	assert.Contains(t, lastLog(m), "no hand underway")
}

func TestExecutePlaysHotSeat(t *testing.T) {
	sink := &recordingSink{}
	m, session := newTestModel(t, WithHandSink("local", sink))

	m.Execute("start")
	assert.Contains(t, lastLog(m), "Hand 1:")
	seat, ok := session.Turn()
	require.True(t, ok)
	assert.Equal(t, session.Dealer(), seat, "heads-up the button acts first")

	m.Execute("check")
	assert.Contains(t, lastLog(m), "check not allowed")
	turn, _ := session.Turn()
	assert.Equal(t, seat, turn, "rejected action keeps the turn")

	m.Execute("fold")
	assert.True(t, strings.Contains(strings.Join(m.Log(), "\n"), "won the pot of 1.50"))
	assert.Equal(t, 2, session.HandNumber(), "next hand deals automatically")

	require.Len(t, sink.records, 1)
	assert.Equal(t, "local", sink.gameID)
	assert.Equal(t, 1, sink.records[0].Number)
}

func TestExecuteEndAndReset(t *testing.T) {
	m, session := newTestModel(t)
	m.Execute("start")
	m.Execute("raise 3")
	require.True(t, session.Underway())

	m.Execute("end")
	assert.False(t, session.Underway())
	for id := 1; id <= 2; id++ {
		p, ok := session.Player(id)
		require.True(t, ok)
		assert.Equal(t, int64(2000), p.Stack, "end returns committed chips")
	}

	m.Execute("reset")
	assert.Equal(t, 0, session.HandNumber())
	assert.Contains(t, lastLog(m), "reset")
}

func TestExecuteQuit(t *testing.T) {
	m, _ := newTestModel(t)
	assert.True(t, m.Execute("quit"))
	assert.True(t, m.Execute("q"))
}

func TestUpdateSubmitsInput(t *testing.T) {
	m, session := newTestModel(t)

	m.actionInput.SetValue("start")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, session.Underway())
	assert.Empty(t, m.actionInput.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestViewShowsTable(t *testing.T) {
	m, session := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Execute("start")
	seat, _ := session.Turn()

	out := m.View()
	assert.Contains(t, out, "Hand #1")
	assert.Contains(t, out, "Pot: 1.50")
	assert.Contains(t, out, "[fold]")
	assert.Contains(t, out, fmt.Sprintf("P%d to act", seat))

	hole := session.View(seat).Players[seat-1].Cards
	require.Len(t, hole, 2)
	assert.Contains(t, out, hole[0].Pretty())
}
