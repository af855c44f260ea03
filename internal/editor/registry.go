// Package editor prepares the editable fields of a rendered section.
package editor

import (
	"sync"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/google/uuid"

	"makebuilder/internal/section"
)

// Initializer prepares every editor inside a rendered section view.
// Fire-and-forget: implementations handle their own failures.
type Initializer interface {
	InitAll(viewID string, s section.Section)
}

// FieldsFunc returns the editable field names for a section type.
type FieldsFunc func(sectionType string) []string

// Instance is one editor bound to a section field.
type Instance struct {
	ID    string // unique per instance
	Field string
	Area  textarea.Model
}

// Registry keeps the editors of every mounted view. Safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	fields FieldsFunc
	byView map[string][]*Instance
}

// NewRegistry creates a registry that asks fields which editors a section
// type needs. A nil fields func yields no editors.
func NewRegistry(fields FieldsFunc) *Registry {
	return &Registry{
		fields: fields,
		byView: make(map[string][]*Instance),
	}
}

// Ensure Registry implements Initializer.
var _ Initializer = (*Registry)(nil)

// InitAll creates one editor per template field of s, seeded with the
// section's current values. Re-initializing a view replaces its editors.
func (r *Registry) InitAll(viewID string, s section.Section) {
	var names []string
	if r.fields != nil {
		names = r.fields(s.Type)
	}
	instances := make([]*Instance, 0, len(names))
	for _, name := range names {
		ta := textarea.New()
		ta.Placeholder = name
		ta.ShowLineNumbers = false
		ta.SetHeight(3)
		ta.SetValue(s.Field(name))
		instances = append(instances, &Instance{
			ID:    uuid.NewString(),
			Field: name,
			Area:  ta,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byView[viewID] = instances
}

// Instances returns the editors of a view in field order.
func (r *Registry) Instances(viewID string) []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, len(r.byView[viewID]))
	copy(out, r.byView[viewID])
	return out
}

// Values returns the current field values of a view's editors.
func (r *Registry) Values(viewID string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.byView[viewID]))
	for _, in := range r.byView[viewID] {
		out[in.Field] = in.Area.Value()
	}
	return out
}

// Initialized reports whether a view has editors registered.
func (r *Registry) Initialized(viewID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byView[viewID]
	return ok
}

// Release drops a view's editors. Returns the number released.
func (r *Registry) Release(viewID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.byView[viewID])
	delete(r.byView, viewID)
	return n
}

// Views returns the number of views with editors.
func (r *Registry) Views() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byView)
}
