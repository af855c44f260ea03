// Package section holds the builder's section records and the ordered
// collection that owns them.
//
// A Section is one user-addable content block on the builder stage. The
// Collection is the source of truth for what is on the stage: every change
// to it is announced synchronously to subscribers, which keep the rendered
// stage in step.
package section

import (
	"fmt"
	"maps"
	"strings"
)

// ViewIDPrefix prefixes the element id of a rendered section.
const ViewIDPrefix = "ttf-one-section-"

// Section is one content block on the stage.
type Section struct {
	Type   string            // sanitized template token (sectionType)
	Number int64             // creation-order identifier (sectionNumber)
	Fields map[string]string // editable field values, keyed by template field name
}

// Attributes are the values passed to Collection.Create.
type Attributes struct {
	Type   string
	Number int64
	Fields map[string]string
}

// ViewID returns the element id of the section's rendered view.
func (s Section) ViewID() string {
	return fmt.Sprintf("%s%d", ViewIDPrefix, s.Number)
}

// Field returns the value of a field, or "" when unset.
func (s Section) Field(name string) string {
	return s.Fields[name]
}

func (s Section) clone() Section {
	out := s
	out.Fields = maps.Clone(s.Fields)
	return out
}

// Sanitize strips every character that is not an ASCII letter, digit or
// underscore.
func Sanitize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		if isWordByte(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
