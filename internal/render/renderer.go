package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"igpages/internal/archive"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// kindTemplates maps each page kind to its template file. Year, year-tagged
// and highlight pages share post.html, distinguished by flags in the data
// bundle.
var kindTemplates = map[string]string{
	archive.KindIndex:      "index.html",
	archive.KindAccount:    "account.html",
	archive.KindYear:       "post.html",
	archive.KindYearTagged: "post.html",
	archive.KindHighlight:  "post.html",
	archive.KindFeedMonth:  "feed_month.html",
}

// HTMLRenderer renders page models with html/template.
type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses the built-in templates. When templateDir is
// non-empty its *.html files are parsed instead, so a site can ship its own
// look without rebuilding the binary. A template missing from the directory
// surfaces later as archive.ErrTemplateNotFound for that page kind.
func NewHTMLRenderer(templateDir string) (*HTMLRenderer, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if templateDir != "" {
		tmpl, err = template.ParseGlob(filepath.Join(templateDir, "*.html"))
	} else {
		tmpl, err = template.ParseFS(builtinTemplates, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &HTMLRenderer{templates: tmpl}, nil
}

// Render executes the template for the given page kind.
func (r *HTMLRenderer) Render(kind string, data map[string]any) ([]byte, error) {
	name, ok := kindTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("page kind %q: %w", kind, archive.ErrTemplateNotFound)
	}
	t := r.templates.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %q for page kind %q: %w", name, kind, archive.ErrTemplateNotFound)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Compile-time check that HTMLRenderer implements archive.Renderer
var _ archive.Renderer = (*HTMLRenderer)(nil)
