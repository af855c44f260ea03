package ui

// AddSectionMsg adds a section of the given menu item type.
type AddSectionMsg struct {
	Slug string // raw data-section value; sanitized by the controller
}

// ToggleMenuMsg slides the menu pane open or closed.
type ToggleMenuMsg struct{}

// ShowRemoveSectionMsg opens the remove confirmation for the selected section.
type ShowRemoveSectionMsg struct{}

// RemoveSectionMsg removes a section after confirmation.
type RemoveSectionMsg struct {
	Number int64
}

// MoveSectionMsg moves the selected section by Delta positions.
type MoveSectionMsg struct {
	Delta int
}

// ShowEditSectionMsg opens the field editor for the selected section.
type ShowEditSectionMsg struct{}

// SaveFieldsMsg stores edited field values.
type SaveFieldsMsg struct {
	Number int64
	Fields map[string]string
}

// CancelEditMsg discards unsaved edits.
type CancelEditMsg struct {
	Number int64
}

// ExportMsg writes the page to HTML (SPC w or w).
type ExportMsg struct{}

// ExportedMsg reports the result of an export.
type ExportedMsg struct {
	Path string
	Err  error
}

// DismissModalMsg is sent when the user dismisses a modal (e.g. Esc).
type DismissModalMsg struct{}

// FocusNextMsg rotates keyboard focus between the menu and the stage.
type FocusNextMsg struct{}
