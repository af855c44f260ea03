package section

import (
	"context"
	"log"
	"maps"
	"slices"
	"sync"
)

// EventKind identifies the kind of collection change.
type EventKind int

const (
	EventAdd    EventKind = iota // a section was appended
	EventRemove                  // a section was removed
	EventSort                    // the order changed
	EventReset                   // the contents were replaced wholesale
	EventChange                  // a section's fields changed
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventSort:
		return "sort"
	case EventReset:
		return "reset"
	case EventChange:
		return "change"
	default:
		return "unknown"
	}
}

// Event describes one change to a Collection.
type Event struct {
	Kind    EventKind
	Section Section // the affected section; zero for EventSort and EventReset
	Index   int     // position of the affected section (-1 when not applicable)
}

// Listener receives collection events. Listeners run synchronously on the
// goroutine that mutated the collection, after the mutation is visible.
type Listener func(Event)

// Persister saves collection changes. Failures are logged and otherwise
// ignored: the in-memory collection stays authoritative for the session.
type Persister interface {
	Save(ctx context.Context, s Section, position int) error
	Delete(ctx context.Context, number int64) error
	Reorder(ctx context.Context, numbers []int64) error
	UpdateFields(ctx context.Context, number int64, fields map[string]string) error
}

// Collection is an ordered set of sections. Safe for concurrent use, but
// listeners are invoked without the lock held and must not assume ordering
// across goroutines.
type Collection struct {
	mu        sync.RWMutex
	sections  []Section
	listeners map[int]Listener
	nextID    int
	persister Persister
}

// NewCollection creates an empty collection. A nil persister keeps the
// collection in memory only.
func NewCollection(p Persister) *Collection {
	return &Collection{
		listeners: make(map[int]Listener),
		persister: p,
	}
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Calling the returned function more than once is a no-op.
func (c *Collection) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Create appends a new section built from attrs and announces it with
// EventAdd before returning. The type is stored as given; callers sanitize.
func (c *Collection) Create(attrs Attributes) Section {
	s := Section{
		Type:   attrs.Type,
		Number: attrs.Number,
		Fields: maps.Clone(attrs.Fields),
	}
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}

	c.mu.Lock()
	c.sections = append(c.sections, s)
	idx := len(c.sections) - 1
	c.mu.Unlock()

	c.emit(Event{Kind: EventAdd, Section: s.clone(), Index: idx})

	if c.persister != nil {
		if err := c.persister.Save(context.Background(), s, idx); err != nil {
			log.Printf("section.Create: failed to persist section %d: %v", s.Number, err)
		}
	}
	return s.clone()
}

// Remove deletes the section with the given number.
// Returns false if no such section exists.
func (c *Collection) Remove(number int64) bool {
	c.mu.Lock()
	idx := c.indexLocked(number)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.sections[idx]
	c.sections = slices.Delete(c.sections, idx, idx+1)
	order := c.numbersLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventRemove, Section: removed, Index: idx})

	if c.persister != nil {
		ctx := context.Background()
		if err := c.persister.Delete(ctx, number); err != nil {
			log.Printf("section.Remove: failed to delete section %d: %v", number, err)
			return true
		}
		// Close the position gap so later appends land after the survivors.
		if err := c.persister.Reorder(ctx, order); err != nil {
			log.Printf("section.Remove: failed to persist order: %v", err)
		}
	}
	return true
}

// Move shifts the section with the given number by delta positions,
// clamped to the collection bounds. Returns false when nothing moved.
func (c *Collection) Move(number int64, delta int) bool {
	c.mu.Lock()
	from := c.indexLocked(number)
	if from < 0 || delta == 0 {
		c.mu.Unlock()
		return false
	}
	to := max(0, min(len(c.sections)-1, from+delta))
	if to == from {
		c.mu.Unlock()
		return false
	}
	s := c.sections[from]
	c.sections = slices.Delete(c.sections, from, from+1)
	c.sections = slices.Insert(c.sections, to, s)
	order := c.numbersLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventSort, Index: -1})

	if c.persister != nil {
		if err := c.persister.Reorder(context.Background(), order); err != nil {
			log.Printf("section.Move: failed to persist order: %v", err)
		}
	}
	return true
}

// UpdateFields replaces the field values of a section.
// Returns false if no such section exists.
func (c *Collection) UpdateFields(number int64, fields map[string]string) bool {
	c.mu.Lock()
	idx := c.indexLocked(number)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.sections[idx].Fields = maps.Clone(fields)
	if c.sections[idx].Fields == nil {
		c.sections[idx].Fields = make(map[string]string)
	}
	updated := c.sections[idx].clone()
	c.mu.Unlock()

	c.emit(Event{Kind: EventChange, Section: updated, Index: idx})

	if c.persister != nil {
		if err := c.persister.UpdateFields(context.Background(), number, fields); err != nil {
			log.Printf("section.UpdateFields: failed to persist section %d: %v", number, err)
		}
	}
	return true
}

// Reset replaces the contents without persisting; used when the builder
// loads previously saved sections.
func (c *Collection) Reset(sections []Section) {
	c.mu.Lock()
	c.sections = make([]Section, 0, len(sections))
	for _, s := range sections {
		s = s.clone()
		if s.Fields == nil {
			s.Fields = make(map[string]string)
		}
		c.sections = append(c.sections, s)
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventReset, Index: -1})
}

// Len returns the number of sections.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sections)
}

// All returns a copy of the sections in order.
func (c *Collection) All() []Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.clone()
	}
	return out
}

// Get returns the section with the given number.
func (c *Collection) Get(number int64) (Section, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.indexLocked(number)
	if idx < 0 {
		return Section{}, false
	}
	return c.sections[idx].clone(), true
}

// StageClass returns the class the stage should carry for the current
// contents: StageEmptyClass when there are no sections, "" otherwise.
func (c *Collection) StageClass() string {
	if c.Len() == 0 {
		return StageEmptyClass
	}
	return ""
}

// StageEmptyClass marks a stage with no sections.
const StageEmptyClass = "ttf-one-stage-empty"

func (c *Collection) indexLocked(number int64) int {
	for i, s := range c.sections {
		if s.Number == number {
			return i
		}
	}
	return -1
}

func (c *Collection) numbersLocked() []int64 {
	out := make([]int64, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Number
	}
	return out
}

func (c *Collection) emit(ev Event) {
	c.mu.RLock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
