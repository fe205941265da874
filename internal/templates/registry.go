package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/draftwell/grantdocs/internal/apierr"
	"github.com/draftwell/grantdocs/internal/docgen"
	"github.com/draftwell/grantdocs/internal/logger"
)

// Registry holds the document templates, keyed by (program, docType).
// Builtins are registered at construction; LoadDir layers YAML files from
// disk over them, later registrations winning.
type Registry struct {
	log   *logger.Logger
	byKey map[string]*docgen.Template
}

func NewRegistry(baseLog *logger.Logger) (*Registry, error) {
	r := &Registry{
		log:   baseLog.With("component", "TemplateRegistry"),
		byKey: map[string]*docgen.Template{},
	}
	for _, raw := range builtinTemplates {
		tpl, err := Parse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("parse builtin template: %w", err)
		}
		r.Register(tpl)
	}
	return r, nil
}

func Parse(raw []byte) (*docgen.Template, error) {
	var tpl docgen.Template
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("unmarshal template: %w", err)
	}
	if tpl.Program == "" || tpl.DocType == "" {
		return nil, fmt.Errorf("template %q missing program or docType", tpl.Name)
	}
	if len(tpl.Sections) == 0 {
		return nil, fmt.Errorf("template %q has no sections", tpl.Name)
	}
	return &tpl, nil
}

func (r *Registry) Register(tpl *docgen.Template) {
	r.byKey[templateKey(tpl.Program, tpl.DocType)] = tpl
}

// LoadDir registers every .yaml/.yml file in dir. A missing dir is not an
// error; a malformed file is.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("Template dir missing, using builtins only", "dir", dir)
			return nil
		}
		return fmt.Errorf("read template dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read template %q: %w", entry.Name(), err)
		}
		tpl, err := Parse(raw)
		if err != nil {
			return fmt.Errorf("template %q: %w", entry.Name(), err)
		}
		r.Register(tpl)
		r.log.Info("Registered template", "program", tpl.Program, "docType", tpl.DocType, "file", entry.Name())
	}
	return nil
}

func (r *Registry) Get(program, docType string) (*docgen.Template, error) {
	tpl, ok := r.byKey[templateKey(program, docType)]
	if !ok {
		return nil, apierr.TemplateNotFound(fmt.Errorf("no template registered for %s/%s", program, docType))
	}
	return tpl, nil
}

func templateKey(program, docType string) string {
	return strings.ToLower(strings.TrimSpace(program)) + "/" + strings.ToLower(strings.TrimSpace(docType))
}
