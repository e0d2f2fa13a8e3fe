package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tracklit/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Swatch renders text in a palette color.
func Swatch(tag, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(models.ColorHex(tag))).Render(text)
}
