package ui

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Key sequences use spacemacs-style notation: "SPC" for space, "SPC w" for SPC then w.
// Single keys: "t", "tab", "ctrl+c", "enter".
// A key may be bound differently per region.
type KeybindRegistry struct {
	bindings map[string][]binding
}

type binding struct {
	cmd     tea.Cmd
	desc    string
	regions []Region // nil/empty = applies everywhere
}

func (b binding) appliesTo(region Region) bool {
	return len(b.regions) == 0 || slices.Contains(b.regions, region)
}

func (b binding) overlaps(regions []Region) bool {
	if len(b.regions) == 0 || len(regions) == 0 {
		return true
	}
	for _, r := range regions {
		if slices.Contains(b.regions, r) {
			return true
		}
	}
	return false
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string][]binding)}
}

// Bind registers a key sequence to a command in every region.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers a key sequence with a description for the help view.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindIn(seq, cmd, desc, nil)
}

// BindIn registers a key sequence that only fires while one of regions is
// focused. If regions is empty, the binding applies everywhere. Earlier
// bindings of seq in any of the same regions are replaced.
func (r *KeybindRegistry) BindIn(seq string, cmd tea.Cmd, desc string, regions []Region) {
	n := normalizeSeq(seq)
	kept := r.bindings[n][:0]
	for _, b := range r.bindings[n] {
		if !b.overlaps(regions) {
			kept = append(kept, b)
		}
	}
	r.bindings[n] = append(kept, binding{cmd: cmd, desc: desc, regions: regions})
}

// Lookup returns the command for a key sequence in region, or nil if not bound there.
func (r *KeybindRegistry) Lookup(seq string, region Region) tea.Cmd {
	if b, ok := r.find(normalizeSeq(seq), region); ok {
		return b.cmd
	}
	return nil
}

func (r *KeybindRegistry) find(seq string, region Region) (binding, bool) {
	for _, b := range r.bindings[seq] {
		if b.appliesTo(region) {
			return b, true
		}
	}
	return binding{}, false
}

// HasPrefix returns true if any binding starts with seq and a space (i.e. more keys follow).
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Hints returns the described single-key bindings active in region.
func (r *KeybindRegistry) Hints(region Region) map[string]string {
	out := make(map[string]string)
	for seq := range r.bindings {
		if strings.HasPrefix(seq, "SPC ") {
			continue
		}
		if b, ok := r.find(seq, region); ok && b.cmd != nil && b.desc != "" {
			out[seq] = b.desc
		}
	}
	return out
}

// LeaderHints returns next-key hints for SPC-prefixed bindings in region.
// currentSeq is the sequence typed so far ("" or "SPC" for the first level).
func (r *KeybindRegistry) LeaderHints(currentSeq string, region Region) map[string]string {
	out := make(map[string]string)
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq := range r.bindings {
		if !strings.HasPrefix(seq, prefix) {
			continue
		}
		b, ok := r.find(seq, region)
		if !ok || b.cmd == nil {
			continue
		}
		rest := strings.Fields(strings.TrimPrefix(seq, prefix))
		if len(rest) == 0 {
			continue
		}
		next := rest[0]
		switch {
		case len(rest) > 1:
			out[next] = next + "…"
		case b.desc != "":
			out[next] = b.desc
		default:
			out[next] = seq
		}
	}
	return out
}

// normalizeSeq converts tea key strings to our canonical format.
// "space" -> "SPC", "ctrl+c" -> "ctrl+c", "j" -> "j".
func normalizeSeq(seq string) string {
	if seq == " " {
		return "SPC"
	}
	parts := strings.Fields(seq)
	for i, p := range parts {
		if p == "space" {
			parts[i] = "SPC"
		}
	}
	return strings.Join(parts, " ")
}

// KeyHandler manages leader key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string   // " " (tea.KeyMsg.String() format)
	LeaderSeq     string   // "SPC" (our format)
	LeaderWaiting bool     // true when waiting for key after leader
	Buffer        []string // accumulated sequence in leader mode
}

// NewKeyHandler creates a handler with SPC as leader.
// Bubble Tea reports space as " " (KeySpace), not "space".
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{
		Registry:  reg,
		LeaderKey: " ",
		LeaderSeq: "SPC",
	}
}

// Handle processes a KeyMsg for the focused region. Returns (consumed, cmd).
// If consumed is true the key was handled here and must not reach views.
func (h *KeyHandler) Handle(msg tea.KeyMsg, region Region) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if s == h.LeaderKey && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{h.LeaderSeq}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq, region); c != nil {
			h.reset()
			return true, c
		}
		// No exact match; stay in leader mode if a longer binding exists
		if h.Registry.HasPrefix(seq) {
			return true, nil
		}
		h.reset()
		return true, nil
	}

	if c := h.Registry.Lookup(keyToSeqPart(s), region); c != nil {
		return true, c
	}
	return false, nil
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// keyToSeqPart converts a tea key string to our sequence part.
func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyMap implements help.KeyMap over the registry for the focused region.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	region     Region
}

// NewKeyMap creates a KeyMap for the given registry, handler, and region.
func NewKeyMap(registry *KeybindRegistry, keyHandler *KeyHandler, region Region) help.KeyMap {
	return &KeyMap{registry: registry, keyHandler: keyHandler, region: region}
}

// ShortHelp returns leader hints while SPC is pending, otherwise the
// single-key bindings of the focused region.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	var hints map[string]string
	leader := km.keyHandler != nil && km.keyHandler.LeaderWaiting
	if leader {
		hints = km.registry.LeaderHints(strings.Join(km.keyHandler.Buffer, " "), km.region)
	} else {
		hints = km.registry.Hints(km.region)
	}
	if len(hints) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, hints[k]),
		))
	}
	if leader {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		))
	}
	return bindings
}

// FullHelp returns a single column with the same bindings as ShortHelp.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
