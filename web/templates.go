// ABOUTME: TemplateEngine loads the built-in Bulma layouts and user templates and renders them with html/template.
// ABOUTME: Layouts are embedded at compile time via go:embed; a template directory can add or override pages.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Built-in layout names.
const (
	LayoutSingle     = "single.html"
	LayoutNavbar     = "navbar.html"
	LayoutThreePanel = "three_panel.html"
)

// ErrTemplateNotFound is returned when rendering an unknown template.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateEngine holds parsed page templates keyed by file name.
type TemplateEngine struct {
	templates map[string]*template.Template
}

// templateFuncs returns the FuncMap available to all templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":    strings.ToLower,
		"safeHTML": safeHTML,
		"favicon":  func() template.HTML { return template.HTML(FaviconHTMLTag()) },
	}
}

// safeHTML marks a render-context value as trusted HTML. Missing keys render empty.
func safeHTML(v any) template.HTML {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return template.HTML(s)
	}
	return template.HTML(fmt.Sprint(v))
}

// NewTemplateEngine parses the embedded layouts and returns a ready-to-use engine.
func NewTemplateEngine() (*TemplateEngine, error) {
	engine := &TemplateEngine{templates: make(map[string]*template.Template)}

	for _, page := range []string{LayoutSingle, LayoutNavbar, LayoutThreePanel} {
		t, err := template.New(page).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// LoadDir parses every *.html file in dir as a standalone page template.
// A file with the same name as a built-in layout replaces it.
func (e *TemplateEngine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading template dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		if err := e.parseFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *TemplateEngine) parseFile(path string) error {
	name := filepath.Base(path)
	t, err := template.New(name).Funcs(templateFuncs()).ParseFiles(path)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", path, err)
	}
	e.templates[name] = t
	return nil
}

// Names returns the available template names in sorted order.
func (e *TemplateEngine) Names() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template with data and writes the result to w.
func (e *TemplateEngine) Render(w io.Writer, name string, data map[string]any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return t.Execute(w, data)
}

// Has reports whether a template with the given name is loaded.
func (e *TemplateEngine) Has(name string) bool {
	_, ok := e.templates[name]
	return ok
}
