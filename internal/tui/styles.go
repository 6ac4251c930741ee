package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the table panes.
const (
	colorText    = lipgloss.Color("#FAFAFA")
	colorAccent  = lipgloss.Color("#7D56F4")
	colorGreen   = lipgloss.Color("#96CEB4")
	colorGold    = lipgloss.Color("#FFD700")
	colorRed     = lipgloss.Color("#FF6B6B")
	colorCream   = lipgloss.Color("#FFEAA7")
	colorMuted   = lipgloss.Color("#626262")
	colorFocused = lipgloss.Color("#04B575")
)

var (
	bold = lipgloss.NewStyle().Bold(true)

	// Sidebar
	handTitleStyle  = bold.Foreground(colorText).Background(colorAccent)
	potStyle        = bold.Foreground(colorCream)
	actingSeatStyle = bold.Foreground(colorGold)
	idleSeatStyle   = lipgloss.NewStyle().Foreground(colorMuted)

	// Prompt pane
	holeCardsStyle = bold.Foreground(colorGreen)
	optionsStyle   = bold.Foreground(colorGold)
	foldStyle      = bold.Foreground(colorRed)
	passiveStyle   = bold.Foreground(colorGreen)
	raiseStyle     = bold.Foreground(colorCream)
	hintStyle      = lipgloss.NewStyle().Foreground(colorMuted)

	// Log entries
	outcomeStyle  = bold.Foreground(colorGreen)
	rejectedStyle = bold.Foreground(colorRed)
	tableEvtStyle = bold.Foreground(colorCream)

	redSuitStyle   = bold.Foreground(colorRed)
	blackSuitStyle = bold.Foreground(colorText)
)
