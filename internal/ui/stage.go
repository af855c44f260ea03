package ui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"makebuilder/internal/anim"
)

const defaultLineHeight = 16

// Stage is the scrollable area holding mounted section views in order.
// Offsets are measured in pixels: each rendered line is lineHeight pixels.
type Stage struct {
	views      []*SectionView
	lineHeight int
	viewport   viewport.Model
	width      int
	scrollPx   float64
	scrollID   string
	scrollSeq  int
	class      string
	selected   int
	focused    bool
}

// NewStage creates an empty stage.
func NewStage(lineHeight int) *Stage {
	if lineHeight <= 0 {
		lineHeight = defaultLineHeight
	}
	return &Stage{
		lineHeight: lineHeight,
		viewport:   viewport.New(0, 0),
		width:      defaultSectionWidth,
	}
}

// SetSize sets the visible area in cells.
func (s *Stage) SetSize(w, h int) {
	s.width = max(20, w)
	s.viewport.Width = w
	s.viewport.Height = h
	for _, v := range s.views {
		v.SetWidth(s.width - 2)
		v.Render()
	}
	s.refresh()
}

// Width returns the width section views render at.
func (s *Stage) Width() int { return s.width - 2 }

// Append mounts a rendered view at the end of the stage.
func (s *Stage) Append(v *SectionView) {
	s.views = append(s.views, v)
	s.refresh()
}

// Remove unmounts the view with the given id.
func (s *Stage) Remove(id string) (*SectionView, bool) {
	i := s.index(id)
	if i < 0 {
		return nil, false
	}
	v := s.views[i]
	s.views = slices.Delete(s.views, i, i+1)
	if s.selected >= len(s.views) {
		s.selected = max(0, len(s.views)-1)
	}
	s.refresh()
	return v, true
}

// Reorder arranges mounted views to match ids. Views not named keep their
// relative order after the named ones.
func (s *Stage) Reorder(ids []string) {
	var selectedID string
	if sel := s.Selected(); sel != nil {
		selectedID = sel.ID
	}
	ordered := make([]*SectionView, 0, len(s.views))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if i := s.index(id); i >= 0 && !seen[id] {
			ordered = append(ordered, s.views[i])
			seen[id] = true
		}
	}
	for _, v := range s.views {
		if !seen[v.ID] {
			ordered = append(ordered, v)
		}
	}
	s.views = ordered
	if selectedID != "" {
		s.selected = max(0, s.index(selectedID))
	}
	s.refresh()
}

// Clear unmounts every view and returns them.
func (s *Stage) Clear() []*SectionView {
	out := s.views
	s.views = nil
	s.selected = 0
	s.refresh()
	return out
}

// Views returns the mounted views in order.
func (s *Stage) Views() []*SectionView {
	out := make([]*SectionView, len(s.views))
	copy(out, s.views)
	return out
}

// Lookup returns the mounted view with the given id.
func (s *Stage) Lookup(id string) (*SectionView, bool) {
	i := s.index(id)
	if i < 0 {
		return nil, false
	}
	return s.views[i], true
}

// Len returns the number of mounted views.
func (s *Stage) Len() int { return len(s.views) }

// OffsetTop returns the pixel offset of a view from the top of the stage.
func (s *Stage) OffsetTop(id string) (int, bool) {
	lines := 0
	for _, v := range s.views {
		if v.ID == id {
			return lines * s.lineHeight, true
		}
		lines += v.Lines()
	}
	return 0, false
}

// ScrollTop returns the current scroll position in pixels.
func (s *Stage) ScrollTop() float64 { return s.scrollPx }

// SetScrollTop jumps to a scroll position in pixels, clamped at zero.
func (s *Stage) SetScrollTop(px float64) {
	s.scrollPx = max(0, px)
	s.viewport.SetYOffset(int(s.scrollPx) / s.lineHeight)
}

// AnimateScroll scrolls to target pixels over d. A newer scroll replaces
// one still in flight.
func (s *Stage) AnimateScroll(driver anim.Driver, target float64, d time.Duration, easing string) tea.Cmd {
	s.scrollSeq++
	s.scrollID = fmt.Sprintf("stage-scroll-%d", s.scrollSeq)
	return driver.Start(anim.Spec{
		ID:       s.scrollID,
		From:     s.scrollPx,
		To:       max(0, target),
		Duration: d,
		Easing:   easing,
	})
}

// Class returns the stage's state class.
func (s *Stage) Class() string { return s.class }

// SetClass sets the stage's state class.
func (s *Stage) SetClass(c string) { s.class = c }

// Selected returns the selected view, or nil when the stage is empty.
func (s *Stage) Selected() *SectionView {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[s.selected]
}

// Select moves the selection by delta, clamped to the stage.
func (s *Stage) Select(delta int) {
	if len(s.views) == 0 {
		return
	}
	s.selected = max(0, min(len(s.views)-1, s.selected+delta))
	s.refresh()
}

// SelectID selects the view with the given id.
func (s *Stage) SelectID(id string) {
	if i := s.index(id); i >= 0 {
		s.selected = i
		s.refresh()
	}
}

// SetFocused marks whether the stage has keyboard focus.
func (s *Stage) SetFocused(f bool) {
	s.focused = f
	s.refresh()
}

// Refresh re-renders the stage contents after a view changed.
func (s *Stage) Refresh() { s.refresh() }

// Update applies scroll animation frames and viewport navigation.
// Returns false for messages it does not own.
func (s *Stage) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case anim.FrameMsg:
		if s.scrollID == "" || msg.ID != s.scrollID {
			return nil, false
		}
		s.SetScrollTop(msg.Value)
		return msg.Next(), true
	case anim.DoneMsg:
		if s.scrollID == "" || msg.ID != s.scrollID {
			return nil, false
		}
		s.SetScrollTop(msg.Value)
		s.scrollID = ""
		return nil, true
	case tea.MouseMsg:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		s.scrollPx = float64(s.viewport.YOffset * s.lineHeight)
		return cmd, true
	}
	return nil, false
}

// PageDown and PageUp scroll by one screen.
func (s *Stage) PageDown() { s.SetScrollTop(s.scrollPx + float64(s.viewport.Height*s.lineHeight)) }
func (s *Stage) PageUp()   { s.SetScrollTop(s.scrollPx - float64(s.viewport.Height*s.lineHeight)) }

// Render returns the full stage contents, unclipped.
func (s *Stage) Render() string {
	if len(s.views) == 0 {
		return Styles.Empty.Render("No sections yet. Pick one from the menu to add it.")
	}
	parts := make([]string, len(s.views))
	for i, v := range s.views {
		gutter := Styles.Gutter
		if i == s.selected && s.focused {
			gutter = Styles.GutterSelected
		}
		parts[i] = gutter.Render(v.El())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// View renders the visible part of the stage.
func (s *Stage) View() string {
	if s.viewport.Height == 0 {
		return s.Render()
	}
	return s.viewport.View()
}

func (s *Stage) refresh() {
	s.viewport.SetContent(s.Render())
	s.viewport.SetYOffset(int(s.scrollPx) / s.lineHeight)
}

func (s *Stage) index(id string) int {
	for i, v := range s.views {
		if v.ID == id {
			return i
		}
	}
	return -1
}
