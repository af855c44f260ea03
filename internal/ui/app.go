package ui

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"makebuilder/internal/anim"
	"makebuilder/internal/editor"
	"makebuilder/internal/export"
	"makebuilder/internal/section"
	"makebuilder/internal/templates"
	"makebuilder/internal/trace"
)

const menuWidth = 30

// AppDeps are the collaborators of the root model. Sections and Catalog are
// required; everything else has a usable default.
type AppDeps struct {
	PageID     int
	Sections   *section.Collection
	Numbers    section.NumberSource
	Catalog    *templates.Catalog
	Editors    *editor.Registry
	Settings   SettingsStore
	Driver     anim.Driver
	Panel      PanelOptions
	Scroll     ScrollOptions
	LineHeight int
	Tracer     *trace.Tracer
	Renderer   *export.Renderer
	Exports    *export.Store
}

// menuItem is one addable section type in the menu pane.
type menuItem struct {
	tmpl templates.Template
}

func (i menuItem) Title() string       { return i.tmpl.Label }
func (i menuItem) Description() string { return i.tmpl.Description }
func (i menuItem) FilterValue() string { return i.tmpl.Slug }

// Attrs returns the attributes a click on this item carries.
func (i menuItem) Attrs() map[string]string {
	return map[string]string{SectionAttr: i.tmpl.Slug}
}

// addSelectedMsg adds the section type highlighted in the menu.
type addSelectedMsg struct{}

// AppModel is the root model: the menu pane on the left, the stage on the
// right, modals on top.
type AppModel struct {
	PageID     int
	Menu       *MenuController
	List       list.Model
	Focus      *FocusManager
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Editors    *editor.Registry
	Sections   *section.Collection

	numbers   section.NumberSource
	renderer  *export.Renderer
	exports   *export.Store
	tracer    *trace.Tracer
	status    string
	statusErr bool
	width     int
	height    int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(d AppDeps) *AppModel {
	if d.Numbers == nil {
		d.Numbers = section.NewClockNumbers()
	}
	if d.Tracer == nil {
		d.Tracer = trace.Nop()
	}
	if d.Driver == nil {
		d.Driver = anim.InstantDriver{}
	}

	var initializer editor.Initializer
	if d.Editors != nil {
		initializer = d.Editors
	}
	ctrl := NewMenuController(MenuDeps{
		Sections: d.Sections,
		Numbers:  d.Numbers,
		Catalog:  d.Catalog,
		Stage:    NewStage(d.LineHeight),
		Panel:    NewPanel(d.PageID, d.Settings, d.Driver, d.Panel),
		Editors:  initializer,
		Driver:   d.Driver,
		Scroll:   d.Scroll,
		Tracer:   d.Tracer,
	})

	m := &AppModel{
		PageID:   d.PageID,
		Menu:     ctrl,
		List:     newMenuList(d.Catalog),
		Editors:  d.Editors,
		Sections: d.Sections,
		numbers:  d.Numbers,
		renderer: d.Renderer,
		exports:  d.Exports,
		tracer:   d.Tracer,
	}
	m.Focus = NewFocusManager(RegionMenu, RegionStage)
	m.Focus.Skip = func(r Region) bool { return r == RegionMenu && ctrl.Panel().Hidden() }
	m.Focus.OnChange = func(_, to Region) { ctrl.Stage().SetFocused(to == RegionStage) }
	if ctrl.Panel().Hidden() {
		m.Focus.SetFocus(RegionStage)
	}
	m.KeyHandler = NewKeyHandler(newRegistry())
	return m
}

func newRegistry() *KeybindRegistry {
	msg := func(v tea.Msg) tea.Cmd { return func() tea.Msg { return v } }
	stage := []Region{RegionStage}
	menu := []Region{RegionMenu}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.Bind("ctrl+c", tea.Quit)
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("tab", msg(FocusNextMsg{}), "Focus")
	reg.BindWithDesc("t", msg(ToggleMenuMsg{}), "Toggle menu")
	reg.BindWithDesc("SPC t", msg(ToggleMenuMsg{}), "Toggle menu")
	reg.BindWithDesc("a", msg(addSelectedMsg{}), "Add")
	reg.BindWithDesc("w", msg(ExportMsg{}), "Export")
	reg.BindWithDesc("SPC w", msg(ExportMsg{}), "Export page")
	reg.BindIn("enter", msg(addSelectedMsg{}), "", menu)
	reg.BindIn("x", msg(ShowRemoveSectionMsg{}), "Remove", stage)
	reg.BindIn("e", msg(ShowEditSectionMsg{}), "Edit", stage)
	reg.BindIn("enter", msg(ShowEditSectionMsg{}), "", stage)
	reg.BindIn("K", msg(MoveSectionMsg{Delta: -1}), "Move up", stage)
	reg.BindIn("J", msg(MoveSectionMsg{Delta: 1}), "Move down", stage)
	reg.BindIn("SPC s x", msg(ShowRemoveSectionMsg{}), "Remove section", stage)
	reg.BindIn("SPC s e", msg(ShowEditSectionMsg{}), "Edit section", stage)
	return reg
}

func newMenuList(catalog *templates.Catalog) list.Model {
	var items []list.Item
	if catalog != nil {
		for _, t := range catalog.All() {
			items = append(items, menuItem{tmpl: t})
		}
	}
	l := list.New(items, NewMenuDelegate(), menuWidth, 10)
	l.Title = "Sections"
	l.Styles.Title = Styles.Title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Load replaces the stage with previously saved sections. Section numbers
// handed out afterwards are greater than every loaded one.
func (m *AppModel) Load(sections []section.Section) {
	m.Menu.Load(sections)
	if seeder, ok := m.numbers.(interface{ Seed(int64) }); ok {
		for _, s := range sections {
			seeder.Seed(s.Number)
		}
	}
}

// Status returns the status line text and whether it reports an error.
func (m *AppModel) Status() (string, bool) { return m.status, m.statusErr }

func (m *AppModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case anim.FrameMsg, anim.DoneMsg:
		cmd, _ := a.Menu.Update(msg)
		a.syncFocus()
		return a, cmd
	case tea.MouseMsg:
		cmd, _ := a.Menu.Stage().Update(msg)
		return a, cmd
	case AddSectionMsg:
		return a, a.addSection(msg.Slug)
	case addSelectedMsg:
		item, ok := a.List.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		return a, a.Menu.AddSection(NewClickEvent(item.Attrs()))
	case ToggleMenuMsg:
		return a, a.Menu.MenuToggle(NewClickEvent(nil))
	case FocusNextMsg:
		a.Focus.Next()
		return a, nil
	case ShowRemoveSectionMsg:
		sel := a.Menu.Stage().Selected()
		if sel == nil {
			a.setStatus("No section selected", true)
			return a, nil
		}
		a.Overlays.Push(NewRemoveSectionConfirmModal(sel.Model))
		return a, nil
	case RemoveSectionMsg:
		a.Overlays.Pop()
		cmd := a.Menu.RemoveSection(msg.Number)
		a.setStatus(fmt.Sprintf("Removed section %d", msg.Number), false)
		return a, cmd
	case MoveSectionMsg:
		sel := a.Menu.Stage().Selected()
		if sel == nil {
			return a, nil
		}
		id := sel.ID
		cmd := a.Menu.MoveSection(sel.Model.Number, msg.Delta)
		a.Menu.Stage().SelectID(id)
		return a, cmd
	case ShowEditSectionMsg:
		return a, a.showEdit()
	case SaveFieldsMsg:
		a.Overlays.Pop()
		cmd := a.Menu.UpdateFields(msg.Number, msg.Fields)
		a.setStatus("Saved", false)
		return a, cmd
	case CancelEditMsg:
		a.Overlays.Pop()
		if s, ok := a.Sections.Get(msg.Number); ok && a.Editors != nil {
			a.Editors.InitAll(s.ViewID(), s)
		}
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case ExportMsg:
		return a, a.exportCmd()
	case ExportedMsg:
		if msg.Err != nil {
			a.setStatus("Export failed: "+msg.Err.Error(), true)
		} else {
			a.setStatus("Exported to "+msg.Path, false)
		}
		return a, nil
	case tea.KeyMsg:
		// Modals get keys first so typing in an editor never triggers bindings.
		if a.Overlays.Len() > 0 {
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, cmd
		}
		if a.KeyHandler != nil {
			if consumed, keyCmd := a.KeyHandler.Handle(msg, a.Focus.Current); consumed {
				return a, keyCmd
			}
		}
		return a, a.navigate(msg)
	}

	// Blink and other component messages go to the top modal.
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *AppModel) addSection(slug string) tea.Cmd {
	return a.Menu.AddSection(NewClickEvent(map[string]string{SectionAttr: slug}))
}

// navigate handles movement keys within the focused region.
func (a *AppModel) navigate(msg tea.KeyMsg) tea.Cmd {
	switch a.Focus.Current {
	case RegionMenu:
		var cmd tea.Cmd
		a.List, cmd = a.List.Update(msg)
		return cmd
	case RegionStage:
		stage := a.Menu.Stage()
		switch msg.String() {
		case "j", "down":
			stage.Select(1)
		case "k", "up":
			stage.Select(-1)
		case "pgdown", "ctrl+d":
			stage.PageDown()
		case "pgup", "ctrl+u":
			stage.PageUp()
		}
	}
	return nil
}

// syncFocus moves focus off the menu once it has finished closing.
func (a *AppModel) syncFocus() {
	if a.Focus.Current == RegionMenu && a.Menu.Panel().Hidden() {
		a.Focus.SetFocus(RegionStage)
	}
}

func (a *AppModel) showEdit() tea.Cmd {
	sel := a.Menu.Stage().Selected()
	if sel == nil {
		a.setStatus("No section selected", true)
		return nil
	}
	if a.Editors == nil {
		a.setStatus("Editing is not available", true)
		return nil
	}
	if !a.Editors.Initialized(sel.ID) {
		a.Editors.InitAll(sel.ID, sel.Model)
	}
	modal := NewEditSectionModal(sel.Model, a.Editors.Instances(sel.ID), a.width-menuWidth)
	a.Overlays.Push(modal)
	return modal.Init()
}

// exportCmd snapshots the collection and writes it in the background.
func (a *AppModel) exportCmd() tea.Cmd {
	if a.renderer == nil || a.exports == nil {
		a.setStatus("Export is not configured", true)
		return nil
	}
	sections := a.Sections.All()
	renderer, store, tracer, pageID := a.renderer, a.exports, a.tracer, a.PageID
	return func() tea.Msg {
		_, span := tracer.Start(context.Background(), trace.SpanExport, map[string]string{
			"page.id":       strconv.Itoa(pageID),
			"section.count": strconv.Itoa(len(sections)),
		})
		defer span.End()

		html, err := renderer.Render(sections)
		if err != nil {
			span.RecordError(err)
			return ExportedMsg{Err: err}
		}
		path, err := store.Write(pageID, html)
		if err != nil {
			span.RecordError(err)
		}
		return ExportedMsg{Path: path, Err: err}
	}
}

func (a *AppModel) resize(w, h int) {
	a.width, a.height = w, h
	bodyH := max(1, h-3) // header, status, help
	a.List.SetSize(menuWidth-1, bodyH)
	a.Menu.Stage().SetSize(max(20, w-menuWidth-1), bodyH)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	header := Styles.Title.Render("Make builder") + "  " +
		Styles.Muted.Render(fmt.Sprintf("page %d · %d section(s)", a.PageID, a.Sections.Len()))
	if class := a.Menu.Stage().Class(); class != "" {
		header += "  " + Styles.Hint.Render(class)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.menuView(), a.Menu.Stage().View())
	if top, ok := a.Overlays.Peek(); ok {
		body = lipgloss.Place(max(a.width, 1), max(a.height-3, 1), lipgloss.Center, lipgloss.Center, top.View())
	}

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = Styles.Error.Render(a.status)
		} else {
			status = Styles.Status.Render(a.status)
		}
	}
	help := RenderKeybindHelp(a.KeyHandler, a.Focus.Current)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, help)
}

// menuView renders the toggle tab and the pane, clipped to the slide extent.
func (a *AppModel) menuView() string {
	panel := a.Menu.Panel()
	tab := Styles.MenuTab.Render("≡ Sections")
	if panel.Class() == MenuClosedClass {
		tab = Styles.MenuTabClosed.Render("≡")
	}
	w := int(math.Round(float64(menuWidth) * panel.Extent()))
	if w <= 0 {
		return Styles.MenuPane.Render(tab)
	}
	items := a.List.View()
	if a.Focus.Current != RegionMenu {
		items = Styles.Muted.Render(items)
	}
	pane := lipgloss.NewStyle().MaxWidth(w).Render(lipgloss.JoinVertical(lipgloss.Left, tab, items))
	return Styles.MenuPane.Width(w).Render(pane)
}
