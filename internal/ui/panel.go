package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"makebuilder/internal/anim"
)

// Menu pane classes and the persisted closed marker.
const (
	MenuOpenedClass = "ttf-one-menu-opened"
	MenuClosedClass = "ttf-one-menu-closed"
	MenuClosedValue = "c"
)

// MenuKey returns the settings key remembering the menu state of a page.
func MenuKey(pageID int) string {
	return fmt.Sprintf("ttfonemt%d", pageID)
}

// SettingsStore is the per-user key/value store backing remembered UI state.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// PanelState is the visibility state of the menu pane.
type PanelState int

const (
	PanelOpen PanelState = iota
	PanelClosed
	PanelOpening // sliding down
	PanelClosing // sliding up
)

func (s PanelState) String() string {
	switch s {
	case PanelOpen:
		return "Open"
	case PanelClosed:
		return "Closed"
	case PanelOpening:
		return "Opening"
	case PanelClosing:
		return "Closing"
	default:
		return "Unknown"
	}
}

// PanelOptions configures the slide animations.
type PanelOptions struct {
	OpenSpeed  time.Duration
	CloseSpeed time.Duration
	Easing     string
}

// Panel is the collapsible menu pane. Toggling starts a slide animation; the
// class swap and the persisted state change happen only when the animation
// completes. Toggles received mid-animation are ignored.
type Panel struct {
	key      string
	state    PanelState
	class    string
	extent   float64 // 0 = fully hidden, 1 = fully shown
	settings SettingsStore
	driver   anim.Driver
	opts     PanelOptions
	animID   string
	seq      int
}

// NewPanel creates the pane for pageID. Its initial state comes from the
// settings store: the closed marker means closed, anything else open.
func NewPanel(pageID int, settings SettingsStore, driver anim.Driver, opts PanelOptions) *Panel {
	if driver == nil {
		driver = anim.InstantDriver{}
	}
	if opts.Easing == "" {
		opts.Easing = anim.EaseInOutQuad
	}
	p := &Panel{
		key:      MenuKey(pageID),
		state:    PanelOpen,
		class:    MenuOpenedClass,
		extent:   1,
		settings: settings,
		driver:   driver,
		opts:     opts,
	}
	if settings != nil {
		v, ok, err := settings.Get(context.Background(), p.key)
		if err != nil {
			log.Printf("ui.NewPanel: failed to read %s: %v", p.key, err)
		} else if ok && v == MenuClosedValue {
			p.state = PanelClosed
			p.class = MenuClosedClass
			p.extent = 0
		}
	}
	return p
}

// Key returns the settings key for this pane.
func (p *Panel) Key() string { return p.key }

// State returns the current state.
func (p *Panel) State() PanelState { return p.state }

// Class returns the class the menu currently carries.
func (p *Panel) Class() string { return p.class }

// Extent returns how much of the pane is shown, from 0 to 1.
func (p *Panel) Extent() float64 { return p.extent }

// Hidden reports whether the pane is fully hidden.
func (p *Panel) Hidden() bool { return p.state == PanelClosed }

// Animating reports whether a slide is in flight.
func (p *Panel) Animating() bool {
	return p.state == PanelOpening || p.state == PanelClosing
}

// Toggle slides the pane open when hidden and closed when visible.
// Returns false when ignored because a slide is already in flight.
func (p *Panel) Toggle() (tea.Cmd, bool) {
	switch p.state {
	case PanelOpening, PanelClosing:
		return nil, false
	case PanelClosed:
		p.state = PanelOpening
		return p.start(p.extent, 1, p.opts.OpenSpeed), true
	default:
		p.state = PanelClosing
		return p.start(p.extent, 0, p.opts.CloseSpeed), true
	}
}

func (p *Panel) start(from, to float64, d time.Duration) tea.Cmd {
	p.seq++
	p.animID = fmt.Sprintf("menu-pane-%d", p.seq)
	return p.driver.Start(anim.Spec{
		ID:       p.animID,
		From:     from,
		To:       to,
		Duration: d,
		Easing:   p.opts.Easing,
	})
}

// Update applies animation messages addressed to this pane.
// Returns false for messages it does not own.
func (p *Panel) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case anim.FrameMsg:
		if p.animID == "" || msg.ID != p.animID {
			return nil, false
		}
		p.extent = msg.Value
		return msg.Next(), true
	case anim.DoneMsg:
		if p.animID == "" || msg.ID != p.animID {
			return nil, false
		}
		p.extent = msg.Value
		p.complete()
		return nil, true
	}
	return nil, false
}

func (p *Panel) complete() {
	ctx := context.Background()
	switch p.state {
	case PanelOpening:
		if p.settings != nil {
			if err := p.settings.Delete(ctx, p.key); err != nil {
				log.Printf("ui.Panel: failed to clear %s: %v", p.key, err)
			}
		}
		p.class = MenuOpenedClass
		p.state = PanelOpen
	case PanelClosing:
		if p.settings != nil {
			if err := p.settings.Set(ctx, p.key, MenuClosedValue); err != nil {
				log.Printf("ui.Panel: failed to persist %s: %v", p.key, err)
			}
		}
		p.class = MenuClosedClass
		p.state = PanelClosed
	}
	p.animID = ""
}
