package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	Badge = lipgloss.NewStyle().
		Foreground(Mantle).
		Background(Lavender).
		Padding(0, 1).
		Bold(true)

	scoreHigh = lipgloss.NewStyle().Foreground(Green).Bold(true)
	scoreMid  = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	scoreLow  = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// Score renders a per-answer feedback score (0-10 scale) colored by band.
func Score(n int) string {
	s := fmt.Sprintf("Score: %d", n)
	switch {
	case n >= 8:
		return scoreHigh.Render(s)
	case n >= 4:
		return scoreMid.Render(s)
	default:
		return scoreLow.Render(s)
	}
}
