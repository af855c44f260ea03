package ui

// SectionAttr is the attribute carrying a menu item's section type.
const SectionAttr = "data-section"

// ClickEvent is a click on a builder control. Menu items carry their
// section type in the data-section attribute.
type ClickEvent struct {
	attrs     map[string]string
	prevented bool
}

// NewClickEvent creates an event for a control with the given attributes.
func NewClickEvent(attrs map[string]string) *ClickEvent {
	return &ClickEvent{attrs: attrs}
}

// Attr returns an attribute of the clicked control, or "" if absent.
func (e *ClickEvent) Attr(name string) string {
	if e == nil {
		return ""
	}
	return e.attrs[name]
}

// PreventDefault suppresses the control's default action.
func (e *ClickEvent) PreventDefault() {
	if e != nil {
		e.prevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *ClickEvent) DefaultPrevented() bool {
	return e != nil && e.prevented
}
