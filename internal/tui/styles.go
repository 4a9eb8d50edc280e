package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the chat panel.
type Styles struct {
	Header     lipgloss.Style
	Bubble     lipgloss.Style
	Composer   lipgloss.Style
	SendButton lipgloss.Style
	Help       lipgloss.Style
}

var (
	accent     = lipgloss.Color("#2563EB")
	bubbleBg   = lipgloss.Color("#DBEAFE")
	bubbleText = lipgloss.Color("#1F2937")
	muted      = lipgloss.Color("#6B7280")
)

// DefaultStyles returns the blue-on-white chat theme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Align(lipgloss.Center),
		Bubble: lipgloss.NewStyle().
			Foreground(bubbleText).
			Background(bubbleBg).
			Padding(0, 1).
			MarginBottom(1),
		Composer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		SendButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 2).
			MarginLeft(1),
		Help: lipgloss.NewStyle().Foreground(muted),
	}
}
