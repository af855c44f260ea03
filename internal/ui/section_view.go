package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"makebuilder/internal/section"
	"makebuilder/internal/templates"
	"makebuilder/internal/ui/textutil"
)

const defaultSectionWidth = 60

// SectionView renders one section into a block of text.
type SectionView struct {
	ID         string
	Model      section.Section
	tmpl       templates.Template
	known      bool
	suggestion string
	width      int
	el         string
	disposers  []func()
	disposed   bool
}

// NewSectionView creates a view for s. Rendering happens in Render.
func NewSectionView(s section.Section, catalog *templates.Catalog) *SectionView {
	v := &SectionView{
		ID:    s.ViewID(),
		Model: s,
		width: defaultSectionWidth,
	}
	if catalog != nil {
		v.tmpl, v.known = catalog.Lookup(s.Type)
		if !v.known {
			v.suggestion = catalog.Suggest(s.Type)
		}
	}
	return v
}

// SetWidth sets the rendered width. Call Render afterwards.
func (v *SectionView) SetWidth(w int) {
	if w > 0 {
		v.width = w
	}
}

// SetModel replaces the section shown. Call Render afterwards.
func (v *SectionView) SetModel(s section.Section) {
	v.Model = s
}

// Known reports whether the section's type has a template.
func (v *SectionView) Known() bool { return v.known }

// Render rebuilds the view's element and returns the view.
func (v *SectionView) Render() *SectionView {
	if !v.known {
		v.el = v.renderFallback()
		return v
	}
	var b strings.Builder
	b.WriteString(Styles.Title.Render(v.tmpl.Label))
	b.WriteString("  ")
	b.WriteString(Styles.Muted.Render("#" + v.ID))
	for _, name := range v.tmpl.Fields {
		b.WriteString("\n")
		b.WriteString(Styles.Label.Render(name + ": "))
		val := textutil.Preview(v.Model.Field(name), v.innerWidth()-textutil.VisualWidth(name)-2)
		if val == "" {
			b.WriteString(Styles.Empty.Render("empty"))
		} else {
			b.WriteString(Styles.Normal.Render(val))
		}
	}
	v.el = Styles.SectionBox.Width(v.innerWidth()).Render(b.String())
	return v
}

func (v *SectionView) renderFallback() string {
	label := v.Model.Type
	if label == "" {
		label = "(empty)"
	}
	body := Styles.TitleWarning.Render("Unknown section type "+label) + "  " + Styles.Muted.Render("#"+v.ID)
	if v.suggestion != "" {
		body += "\n" + Styles.Hint.Render(fmt.Sprintf("did you mean %q?", v.suggestion))
	}
	return Styles.SectionBoxDanger.Width(v.innerWidth()).Render(body)
}

func (v *SectionView) innerWidth() int {
	// border (2) + padding (2)
	return max(10, v.width-4)
}

// El returns the last rendered element.
func (v *SectionView) El() string { return v.el }

// Lines returns the height of the rendered element.
func (v *SectionView) Lines() int {
	if v.el == "" {
		return 0
	}
	return lipgloss.Height(v.el)
}

// OnDispose registers fn to run when the view is disposed.
func (v *SectionView) OnDispose(fn func()) {
	v.disposers = append(v.disposers, fn)
}

// Dispose runs the registered disposers once, in reverse order.
func (v *SectionView) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	for i := len(v.disposers) - 1; i >= 0; i-- {
		v.disposers[i]()
	}
	v.disposers = nil
}

// Disposed reports whether Dispose has run.
func (v *SectionView) Disposed() bool { return v.disposed }
