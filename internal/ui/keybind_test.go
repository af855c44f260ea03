package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("j", nil)

	if reg.Lookup("q", RegionMenu) == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q", RegionStage) == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown", RegionMenu) != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "), RegionStage)
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"), RegionStage)
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), RegionStage)
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"), RegionStage)
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"), RegionStage)
	if !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"), RegionStage)
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestKeybindRegistry_RegionScoped(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindIn("x", tea.Quit, "Remove", []Region{RegionStage})
	reg.BindWithDesc("t", tea.Quit, "Toggle menu")

	if reg.Lookup("x", RegionMenu) != nil {
		t.Error("x should not fire in the menu")
	}
	if reg.Lookup("x", RegionStage) == nil {
		t.Error("x should fire on the stage")
	}
	if reg.Lookup("t", RegionMenu) == nil || reg.Lookup("t", RegionStage) == nil {
		t.Error("t should fire everywhere")
	}

	h := NewKeyHandler(reg)
	if consumed, _ := h.Handle(keyMsg("x"), RegionMenu); consumed {
		t.Error("x consumed in the menu")
	}
}

func TestKeybindRegistry_SameKeyPerRegion(t *testing.T) {
	reg := NewKeybindRegistry()
	add := func() tea.Msg { return AddSectionMsg{} }
	edit := func() tea.Msg { return ShowEditSectionMsg{} }
	reg.BindIn("enter", add, "", []Region{RegionMenu})
	reg.BindIn("enter", edit, "", []Region{RegionStage})

	if cmd := reg.Lookup("enter", RegionMenu); cmd == nil {
		t.Error("menu enter should be bound")
	} else if _, ok := cmd().(AddSectionMsg); !ok {
		t.Errorf("menu enter = %T", cmd())
	}
	cmd := reg.Lookup("enter", RegionStage)
	if cmd == nil {
		t.Fatal("stage enter should be bound")
	}
	if _, ok := cmd().(ShowEditSectionMsg); !ok {
		t.Errorf("stage enter = %T", cmd())
	}

	// A global binding replaces both.
	reg.Bind("enter", tea.Quit)
	if len(reg.bindings["enter"]) != 1 {
		t.Errorf("expected 1 enter binding, got %d", len(reg.bindings["enter"]))
	}
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC w", tea.Quit, "Export page")
	reg.BindIn("SPC s x", tea.Quit, "Remove section", []Region{RegionStage})
	reg.BindIn("SPC s e", tea.Quit, "Edit section", []Region{RegionStage})

	hints := reg.LeaderHints("SPC", RegionStage)
	if hints["w"] != "Export page" {
		t.Errorf("w hint = %q", hints["w"])
	}
	if hints["s"] != "s…" {
		t.Errorf("s hint = %q", hints["s"])
	}

	hints = reg.LeaderHints("SPC", RegionMenu)
	if _, ok := hints["s"]; ok {
		t.Error("stage-only group shown in the menu")
	}

	hints = reg.LeaderHints("SPC s", RegionStage)
	if hints["x"] != "Remove section" || hints["e"] != "Edit section" {
		t.Errorf("SPC s hints = %v", hints)
	}
}

func TestKeyHandler_MultiKeySequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindIn("SPC s x", func() tea.Msg { return ShowRemoveSectionMsg{} }, "", []Region{RegionStage})
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), RegionStage)
	consumed, cmd := h.Handle(keyMsg("s"), RegionStage)
	if !consumed || cmd != nil || !h.LeaderWaiting {
		t.Fatalf("s: consumed=%v cmd=%v waiting=%v", consumed, cmd != nil, h.LeaderWaiting)
	}
	_, cmd = h.Handle(keyMsg("x"), RegionStage)
	if cmd == nil {
		t.Fatal("expected SPC s x to resolve")
	}
	if _, ok := cmd().(ShowRemoveSectionMsg); !ok {
		t.Errorf("got %T", cmd())
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC w", tea.Quit, "Export page")
	h := NewKeyHandler(reg)

	out := RenderKeybindHelp(h, RegionStage)
	if !strings.Contains(out, "Quit") || strings.Contains(out, "Export page") {
		t.Errorf("plain help = %q", out)
	}

	h.Handle(keyMsg(" "), RegionStage)
	out = RenderKeybindHelp(h, RegionStage)
	if !strings.Contains(out, "Export page") || !strings.Contains(out, "cancel") {
		t.Errorf("leader help = %q", out)
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "q":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	case "x":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	case "j":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
