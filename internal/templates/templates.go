// Package templates loads the catalog of section types the builder can add.
package templates

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"makebuilder/internal/section"
)

//go:embed templates.toml
var defaultTOML []byte

// Template describes one addable section type.
type Template struct {
	Slug        string   `toml:"slug"`
	Label       string   `toml:"label"`
	Description string   `toml:"description"`
	Fields      []string `toml:"fields"`
}

type catalogFile struct {
	Template []Template `toml:"template"`
}

// Catalog is an ordered set of templates keyed by slug.
type Catalog struct {
	templates []Template
	bySlug    map[string]Template
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultTOML)
}

// Load reads a catalog from path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML catalog bytes and validates each template.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(f.Template) == 0 {
		return nil, fmt.Errorf("parse templates: no templates defined")
	}
	c := &Catalog{bySlug: make(map[string]Template, len(f.Template))}
	for i, t := range f.Template {
		if t.Slug == "" {
			return nil, fmt.Errorf("template[%d]: slug is required", i)
		}
		if section.Sanitize(t.Slug) != t.Slug {
			return nil, fmt.Errorf("template[%d]: slug %q contains non-word characters", i, t.Slug)
		}
		if _, dup := c.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("template[%d]: duplicate slug %q", i, t.Slug)
		}
		if t.Label == "" {
			t.Label = t.Slug
		}
		c.templates = append(c.templates, t)
		c.bySlug[t.Slug] = t
	}
	return c, nil
}

// All returns the templates in catalog order.
func (c *Catalog) All() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup returns the template for slug.
func (c *Catalog) Lookup(slug string) (Template, bool) {
	t, ok := c.bySlug[slug]
	return t, ok
}

// Fields returns the field names of slug's template, or nil if unknown.
func (c *Catalog) Fields(slug string) []string {
	return c.bySlug[slug].Fields
}

// Suggest returns the known slug closest to slug by edit distance, or ""
// when nothing is reasonably close.
func (c *Catalog) Suggest(slug string) string {
	if slug == "" {
		return ""
	}
	type cand struct {
		slug string
		dist int
	}
	var cands []cand
	for _, t := range c.templates {
		d := levenshtein.ComputeDistance(slug, t.Slug)
		if d <= max(2, len(t.Slug)/2) {
			cands = append(cands, cand{t.Slug, d})
		}
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	return cands[0].slug
}
