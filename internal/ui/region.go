package ui

// Region is a focusable area of the builder screen.
type Region int

const (
	RegionMenu Region = iota
	RegionStage
)

func (r Region) String() string {
	switch r {
	case RegionMenu:
		return "Menu"
	case RegionStage:
		return "Stage"
	default:
		return "Unknown"
	}
}
