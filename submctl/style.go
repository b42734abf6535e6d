package submctl

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/ojclient/judgeapi"
)

var (
	acceptedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	rejectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

// IsAccepted reports whether status is rendered as a success.
func IsAccepted(status string) bool {
	return judgeapi.IsAccepted(status)
}

// VerdictStyle has one success style for ACCEPTED and one failure style for
// every other status.
func VerdictStyle(status string) lipgloss.Style {
	if IsAccepted(status) {
		return acceptedStyle
	}
	return rejectedStyle
}
