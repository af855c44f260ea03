// Package ui is the builder screen: a collapsible menu of section types, the
// stage of mounted section views, and the modals used to edit and remove
// sections.
//
// Core abstractions:
//   - MenuController: turns menu clicks into collection changes and keeps one mounted view per section
//   - Stage: ordered section views with pixel geometry and an animated scroll position
//   - Panel: the menu pane's Open/Closing/Closed/Opening state machine
//   - FocusManager: rotates keyboard focus between regions
//   - OverlayStack: modal views that receive input first
//   - KeybindRegistry: spacemacs-style bindings scoped to regions
//
// Animations run through an anim.Driver and complete with a DoneMsg; nothing
// changes state in the middle of an animation except its frame value.
package ui
