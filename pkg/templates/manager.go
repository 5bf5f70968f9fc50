package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/shopspring/decimal"
)

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	ExecuteTemplate(name string, data any) (string, error)
	TemplateExists(name string) bool
}

// Manager manages templates from a directory
type Manager struct {
	templates *template.Template
	directory string
}

// GetDefaultFuncMap returns template helpers used by the report templates
func GetDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"dec": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"date": func(layout string, v interface{ Format(string) string }) string {
			return v.Format(layout)
		},
	}
}

// NewManager creates and loads all templates from a directory
func NewManager(templatesDir string) (*Manager, error) {
	tmpl := template.New("root").Funcs(GetDefaultFuncMap())

	pattern := filepath.Join(templatesDir, "*.tmpl")
	tmpl, err := tmpl.ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", templatesDir, err)
	}

	return &Manager{
		templates: tmpl,
		directory: templatesDir,
	}, nil
}

// ExecuteTemplate renders a template by name
func (m *Manager) ExecuteTemplate(name string, data any) (string, error) {
	if !m.TemplateExists(name) {
		return "", fmt.Errorf("template %s not found in %s", name, m.directory)
	}

	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// TemplateExists checks whether a template was loaded
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}
