package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"makebuilder/internal/editor"
	"makebuilder/internal/section"
)

// EditSectionModal edits the fields of one section using the editors
// prepared for its view. Tab cycles fields, ctrl+s saves, Esc discards.
type EditSectionModal struct {
	Section   section.Section
	instances []*editor.Instance
	active    int
	width     int
}

// Ensure EditSectionModal implements View.
var _ View = (*EditSectionModal)(nil)

// NewEditSectionModal creates an edit modal over the given editors.
func NewEditSectionModal(s section.Section, instances []*editor.Instance, width int) *EditSectionModal {
	m := &EditSectionModal{Section: s, instances: instances, width: max(30, width)}
	for _, in := range instances {
		in.Area.SetWidth(m.width - 8)
		in.Area.Blur()
	}
	if len(instances) > 0 {
		instances[0].Area.Focus()
	}
	return m
}

// Active returns the focused field name, or "" if the section has none.
func (m *EditSectionModal) Active() string {
	if len(m.instances) == 0 {
		return ""
	}
	return m.instances[m.active].Field
}

// Values returns the current editor contents by field.
func (m *EditSectionModal) Values() map[string]string {
	out := make(map[string]string, len(m.instances))
	for _, in := range m.instances {
		out[in.Field] = in.Area.Value()
	}
	return out
}

// Init implements View.
func (m *EditSectionModal) Init() tea.Cmd {
	if len(m.instances) == 0 {
		return nil
	}
	return textarea.Blink
}

// Update implements View.
func (m *EditSectionModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return CancelEditMsg{Number: m.Section.Number} }
		case "ctrl+s":
			number, values := m.Section.Number, m.Values()
			return m, func() tea.Msg { return SaveFieldsMsg{Number: number, Fields: values} }
		case "tab", "shift+tab":
			if len(m.instances) > 1 {
				dir := 1
				if key.String() == "shift+tab" {
					dir = -1
				}
				m.instances[m.active].Area.Blur()
				m.active = (m.active + dir + len(m.instances)) % len(m.instances)
				return m, m.instances[m.active].Area.Focus()
			}
			return m, nil
		}
	}
	if len(m.instances) == 0 {
		return m, nil
	}
	in := m.instances[m.active]
	var cmd tea.Cmd
	in.Area, cmd = in.Area.Update(msg)
	return m, cmd
}

// View implements View.
func (m *EditSectionModal) View() string {
	var b strings.Builder
	b.WriteString(ModalStyles.Title.Render("Edit " + sectionLabel(m.Section)))
	b.WriteString("\n\n")
	if len(m.instances) == 0 {
		b.WriteString(Styles.Empty.Render("This section has no editable fields."))
	}
	for i, in := range m.instances {
		style := ModalStyles.FieldName
		if i == m.active {
			style = ModalStyles.FieldActive
		}
		b.WriteString(style.Render(in.Field))
		b.WriteString("\n")
		b.WriteString(in.Area.View())
		b.WriteString("\n")
	}
	b.WriteString("\n" + ModalStyles.Help.Render("Tab: next field  Ctrl+S: save  Esc: discard"))
	return ModalStyles.BoxDefault.Width(m.width).Render(b.String())
}
