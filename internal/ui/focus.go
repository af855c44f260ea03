package ui

// FocusManager tracks and rotates focus across screen regions.
type FocusManager struct {
	Current  Region   // the focused region
	Order    []Region // Tab order for focus rotation
	OnChange func(from, to Region)
	// Skip reports regions that cannot take focus right now (e.g. a hidden
	// menu pane). Nil means every region can.
	Skip func(Region) bool
}

// NewFocusManager creates a manager cycling through order, starting at the first.
func NewFocusManager(order ...Region) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next advances focus to the next focusable region in order.
// Returns the new current region.
func (f *FocusManager) Next() Region {
	return f.step(1)
}

// Prev moves focus to the previous focusable region.
func (f *FocusManager) Prev() Region {
	return f.step(-1)
}

func (f *FocusManager) step(dir int) Region {
	n := len(f.Order)
	if n == 0 {
		return f.Current
	}
	idx := 0
	for i, r := range f.Order {
		if r == f.Current {
			idx = i
			break
		}
	}
	for i := 1; i <= n; i++ {
		cand := f.Order[((idx+dir*i)%n+n)%n]
		if f.Skip == nil || !f.Skip(cand) {
			f.set(cand)
			break
		}
	}
	return f.Current
}

// SetFocus focuses the given region.
// Returns false if the region is not in the order or cannot take focus.
func (f *FocusManager) SetFocus(r Region) bool {
	for _, o := range f.Order {
		if o == r {
			if f.Skip != nil && f.Skip(r) {
				return false
			}
			f.set(r)
			return true
		}
	}
	return false
}

func (f *FocusManager) set(r Region) {
	from := f.Current
	f.Current = r
	if f.OnChange != nil && from != r {
		f.OnChange(from, r)
	}
}
