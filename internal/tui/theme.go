package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tasklist/internal/notify"
)

var (
	colorAccent   = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#8B80F9"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	colorBorder   = lipgloss.AdaptiveColor{Light: "#C8C8C8", Dark: "#3C3C3C"}
	colorSelected = lipgloss.AdaptiveColor{Light: "#E8E6FF", Dark: "#2E2A5A"}
	colorSuccess  = lipgloss.AdaptiveColor{Light: "#1E7B34", Dark: "#4CC26A"}
	colorInfo     = lipgloss.AdaptiveColor{Light: "#1F5FAD", Dark: "#5FA8F5"}
	colorWarning  = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#E3B341"}
	colorError    = lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#F47067"}
)

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelected).Bold(true)
}

func styleCard(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	if selected {
		s = s.BorderForeground(colorAccent)
	}
	return s
}

func severityColor(sev notify.Severity) lipgloss.AdaptiveColor {
	switch sev {
	case notify.Success:
		return colorSuccess
	case notify.Warning:
		return colorWarning
	case notify.Error:
		return colorError
	default:
		return colorInfo
	}
}

func styleBanner(sev notify.Severity) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(severityColor(sev)).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(severityColor(sev)).
		PaddingLeft(1)
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows the
// terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
