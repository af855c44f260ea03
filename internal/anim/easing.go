// Package anim drives property animations as Bubble Tea commands.
//
// An animation is described by a Spec and started through a Driver. The
// driver reports progress as FrameMsg values and finishes with exactly one
// DoneMsg, so callers can apply state changes "on completion" by handling
// DoneMsg instead of nesting callbacks.
package anim

import (
	"math"
	"strings"
)

// Easing maps linear progress p in [0,1] to eased progress.
type Easing func(p float64) float64

// Easing names understood by Lookup.
const (
	Linear        = "linear"
	Swing         = "swing"
	EaseOutQuad   = "easeOutQuad"
	EaseInOutQuad = "easeInOutQuad"
)

var easings = map[string]Easing{
	strings.ToLower(Linear): func(p float64) float64 { return p },
	strings.ToLower(Swing): func(p float64) float64 {
		return 0.5 - math.Cos(p*math.Pi)/2
	},
	strings.ToLower(EaseOutQuad): func(p float64) float64 {
		return p * (2 - p)
	},
	strings.ToLower(EaseInOutQuad): func(p float64) float64 {
		if p < 0.5 {
			return 2 * p * p
		}
		return -1 + (4-2*p)*p
	},
}

// Lookup returns the easing registered under name (case-insensitive).
// Unknown names fall back to swing.
func Lookup(name string) Easing {
	if e, ok := easings[strings.ToLower(name)]; ok {
		return e
	}
	return easings[strings.ToLower(Swing)]
}

// Known reports whether name is a registered easing.
func Known(name string) bool {
	_, ok := easings[strings.ToLower(name)]
	return ok
}
