package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the help bar for the focused region. While SPC
// is pending it shows the next-level leader hints in a box.
func RenderKeybindHelp(keyHandler *KeyHandler, region Region) string {
	if keyHandler == nil {
		return ""
	}
	km := NewKeyMap(keyHandler.Registry, keyHandler, region)
	bindings := km.ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	helpModel.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	helpModel.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))

	content := helpModel.ShortHelpView(bindings)
	if !keyHandler.LeaderWaiting {
		return content
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	label := Styles.Muted.Render(keyHandler.LeaderSeq)
	if len(keyHandler.Buffer) > 1 {
		label = Styles.Muted.Render(strings.Join(keyHandler.Buffer, " "))
	}
	return boxStyle.Render(label + " " + content)
}
