package ui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"makebuilder/internal/anim"
	"makebuilder/internal/editor"
	"makebuilder/internal/section"
	"makebuilder/internal/templates"
	"makebuilder/internal/trace"
)

// ScrollOptions controls scrolling to a newly added section.
type ScrollOptions struct {
	Duration  time.Duration
	Easing    string
	Allowance int // pixels kept above the section (admin bar + margin)
}

// DefaultScrollOptions matches the builder's stock behaviour: 800ms,
// easeOutQuad, and 32px admin bar plus 9px margin.
func DefaultScrollOptions() ScrollOptions {
	return ScrollOptions{Duration: 800 * time.Millisecond, Easing: anim.EaseOutQuad, Allowance: 32 + 9}
}

// MenuDeps are the collaborators of a MenuController.
type MenuDeps struct {
	Sections *section.Collection // required
	Numbers  section.NumberSource
	Catalog  *templates.Catalog
	Stage    *Stage
	Panel    *Panel
	Editors  editor.Initializer
	Driver   anim.Driver
	Scroll   ScrollOptions
	Tracer   *trace.Tracer
}

// editorReleaser is implemented by initializers that hold per-view state.
type editorReleaser interface {
	Release(viewID string) int
}

// MenuController turns menu clicks into collection changes and keeps the
// stage in step with the collection: every section has exactly one mounted
// view.
type MenuController struct {
	sections    *section.Collection
	numbers     section.NumberSource
	catalog     *templates.Catalog
	stage       *Stage
	panel       *Panel
	editors     editor.Initializer
	driver      anim.Driver
	scroll      ScrollOptions
	tracer      *trace.Tracer
	unsubscribe func()
	pending     []tea.Cmd
}

// NewMenuController wires the controller to d.Sections. Call Close to
// stop listening.
func NewMenuController(d MenuDeps) *MenuController {
	c := &MenuController{
		sections: d.Sections,
		numbers:  d.Numbers,
		catalog:  d.Catalog,
		stage:    d.Stage,
		panel:    d.Panel,
		editors:  d.Editors,
		driver:   d.Driver,
		scroll:   d.Scroll,
		tracer:   d.Tracer,
	}
	if c.numbers == nil {
		c.numbers = section.NewClockNumbers()
	}
	if c.stage == nil {
		c.stage = NewStage(defaultLineHeight)
	}
	if c.driver == nil {
		c.driver = anim.InstantDriver{}
	}
	if c.panel == nil {
		c.panel = NewPanel(0, nil, c.driver, PanelOptions{})
	}
	if c.scroll.Easing == "" {
		c.scroll.Easing = anim.EaseOutQuad
	}
	if c.tracer == nil {
		c.tracer = trace.Nop()
	}
	c.unsubscribe = c.sections.Subscribe(c.handle)
	c.stage.SetClass(c.sections.StageClass())
	return c
}

// Close stops listening to the collection and disposes mounted views.
func (c *MenuController) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	for _, v := range c.stage.Clear() {
		v.Dispose()
	}
}

// Stage returns the stage the controller renders into.
func (c *MenuController) Stage() *Stage { return c.stage }

// Panel returns the menu pane.
func (c *MenuController) Panel() *Panel { return c.panel }

// AddSection creates a section of the clicked item's type. The add
// notification mounts the view before AddSection returns; the returned
// command runs the scroll animation.
func (c *MenuController) AddSection(ev *ClickEvent) tea.Cmd {
	ev.PreventDefault()
	sectionType := section.Sanitize(ev.Attr(SectionAttr))

	_, span := c.tracer.Start(context.Background(), trace.SpanAddSection, map[string]string{
		"section.type": sectionType,
	})
	defer span.End()

	c.sections.Create(section.Attributes{
		Type:   sectionType,
		Number: c.numbers.Next(),
	})
	return c.flush()
}

// MenuToggle slides the menu pane open or closed.
func (c *MenuController) MenuToggle(ev *ClickEvent) tea.Cmd {
	ev.PreventDefault()

	_, span := c.tracer.Start(context.Background(), trace.SpanMenuToggle, map[string]string{
		"menu.key":   c.panel.Key(),
		"menu.state": c.panel.State().String(),
	})
	defer span.End()

	cmd, _ := c.panel.Toggle()
	return cmd
}

// RemoveSection removes a section; the stage unmounts its view.
func (c *MenuController) RemoveSection(number int64) tea.Cmd {
	_, span := c.tracer.Start(context.Background(), trace.SpanRemoveSection, map[string]string{
		"section.number": strconv.FormatInt(number, 10),
	})
	defer span.End()

	c.sections.Remove(number)
	return c.flush()
}

// MoveSection shifts a section by delta positions.
func (c *MenuController) MoveSection(number int64, delta int) tea.Cmd {
	c.sections.Move(number, delta)
	return c.flush()
}

// UpdateFields stores edited field values for a section.
func (c *MenuController) UpdateFields(number int64, fields map[string]string) tea.Cmd {
	c.sections.UpdateFields(number, fields)
	return c.flush()
}

// Load replaces the collection with previously saved sections and mounts
// their views without scrolling.
func (c *MenuController) Load(sections []section.Section) {
	c.sections.Reset(sections)
}

// Update routes animation messages to the pane and the stage.
func (c *MenuController) Update(msg tea.Msg) (tea.Cmd, bool) {
	if cmd, ok := c.panel.Update(msg); ok {
		return cmd, true
	}
	return c.stage.Update(msg)
}

func (c *MenuController) handle(ev section.Event) {
	switch ev.Kind {
	case section.EventAdd:
		c.addOne(ev.Section)
	case section.EventRemove:
		c.removeOne(ev.Section)
	case section.EventSort:
		c.sort()
	case section.EventReset:
		c.reset()
	case section.EventChange:
		c.change(ev.Section)
	}
}

// addOne mounts a view for a new section, scrolls to it, and prepares its
// editors.
func (c *MenuController) addOne(s section.Section) {
	_, span := c.tracer.Start(context.Background(), trace.SpanAddOne, map[string]string{
		"section.type":   s.Type,
		"section.number": strconv.FormatInt(s.Number, 10),
	})
	defer span.End()

	view := c.mount(s)

	top, _ := c.stage.OffsetTop(view.ID)
	target := max(0, top-c.scroll.Allowance)
	c.pending = append(c.pending,
		c.stage.AnimateScroll(c.driver, float64(target), c.scroll.Duration, c.scroll.Easing))

	c.stage.SetClass(c.sections.StageClass())
	if c.editors != nil {
		c.editors.InitAll(view.ID, s)
	}
}

func (c *MenuController) mount(s section.Section) *SectionView {
	view := NewSectionView(s, c.catalog)
	view.SetWidth(c.stage.Width())
	if r, ok := c.editors.(editorReleaser); ok {
		id := view.ID
		view.OnDispose(func() { r.Release(id) })
	}
	c.stage.Append(view.Render())
	c.stage.SelectID(view.ID)
	return view
}

func (c *MenuController) removeOne(s section.Section) {
	if v, ok := c.stage.Remove(s.ViewID()); ok {
		v.Dispose()
	}
	c.stage.SetClass(c.sections.StageClass())
}

func (c *MenuController) sort() {
	all := c.sections.All()
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ViewID()
	}
	c.stage.Reorder(ids)
}

func (c *MenuController) reset() {
	for _, v := range c.stage.Clear() {
		v.Dispose()
	}
	for _, s := range c.sections.All() {
		c.mount(s)
		if c.editors != nil {
			c.editors.InitAll(s.ViewID(), s)
		}
	}
	if c.stage.Len() > 0 {
		c.stage.SelectID(c.stage.Views()[0].ID)
	}
	c.stage.SetScrollTop(0)
	c.stage.SetClass(c.sections.StageClass())
}

func (c *MenuController) change(s section.Section) {
	v, ok := c.stage.Lookup(s.ViewID())
	if !ok {
		return
	}
	v.SetModel(s)
	v.Render()
	c.stage.Refresh()
	if c.editors != nil {
		c.editors.InitAll(v.ID, s)
	}
}

func (c *MenuController) flush() tea.Cmd {
	cmds := c.pending
	c.pending = nil
	return tea.Batch(cmds...)
}
