package ui

import "github.com/charmbracelet/lipgloss"

// ModalStyles contains shared style definitions for modals.
var ModalStyles = struct {
	// Box styles
	BoxDefault lipgloss.Style // Standard modal box (highlight border)
	BoxWarning lipgloss.Style // Warning/error modal box (red border)

	// Text styles
	Title        lipgloss.Style // Modal title
	TitleWarning lipgloss.Style // Warning title (red)
	Label        lipgloss.Style // Modal label/content
	FieldName    lipgloss.Style // Field name above an editor
	FieldActive  lipgloss.Style // Field name of the focused editor
	Help         lipgloss.Style // Help text (dim gray)
	Details      lipgloss.Style // Warning details (orange)
}{
	BoxDefault: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxWarning: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Label: lipgloss.NewStyle(),
	FieldName: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	FieldActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}
