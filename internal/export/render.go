package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"makebuilder/internal/section"
	"makebuilder/internal/templates"
)

// Renderer converts sections to HTML. Field values are Markdown.
type Renderer struct {
	md      goldmark.Markdown
	catalog *templates.Catalog
}

// NewRenderer creates a renderer that orders fields by catalog templates.
func NewRenderer(catalog *templates.Catalog) *Renderer {
	return &Renderer{
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		catalog: catalog,
	}
}

// Render returns the HTML for sections in order. Sections of unknown type
// are emitted as empty placeholders so positions are preserved.
func (r *Renderer) Render(sections []section.Section) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<div id=\"ttf-one-stage\">\n")
	for _, s := range sections {
		if err := r.renderSection(&buf, s); err != nil {
			return nil, err
		}
	}
	buf.WriteString("</div>\n")
	return buf.Bytes(), nil
}

func (r *Renderer) renderSection(buf *bytes.Buffer, s section.Section) error {
	fmt.Fprintf(buf, "<section id=\"%s\" class=\"ttf-one-section ttf-one-section-%s\">\n",
		html.EscapeString(s.ViewID()), html.EscapeString(s.Type))
	var fields []string
	if r.catalog != nil {
		fields = r.catalog.Fields(s.Type)
	}
	for _, name := range fields {
		v := s.Field(name)
		if v == "" {
			continue
		}
		fmt.Fprintf(buf, "<div class=\"ttf-one-field ttf-one-field-%s\">\n", html.EscapeString(name))
		if err := r.md.Convert([]byte(v), buf); err != nil {
			return fmt.Errorf("render section %d field %s: %w", s.Number, name, err)
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</section>\n")
	return nil
}
