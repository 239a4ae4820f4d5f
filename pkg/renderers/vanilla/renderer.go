package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-article-admin/pkg/render"
	rendertemplate "github.com/goliatone/go-article-admin/pkg/render/template"
	gotemplate "github.com/goliatone/go-article-admin/pkg/render/template/gotemplate"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla/components"
)

// DefaultSubmitLabel is used when RenderOptions.SubmitLabel is empty.
const DefaultSubmitLabel = "Submit"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithSanitizer replaces the policy applied to HTML table cells.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer renders forms and tables as server-side HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	policy    *bluemonday.Policy
}

var (
	_ render.FormRenderer  = (*Renderer)(nil)
	_ render.TableRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithName("vanilla"),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry, policy: cfg.policy}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Templates exposes the template renderer so pages can share it.
func (r *Renderer) Templates() rendertemplate.TemplateRenderer {
	return r.templates
}

// Render writes the form as an HTML fragment.
func (r *Renderer) Render(_ context.Context, form render.FormView, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var partials map[string]string
	if options.Theme != nil {
		partials = options.Theme.Partials
	}
	fields, err := newComponentRenderer(r.templates, r.registry, partials).renderAll(form.Fields)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	method, override := render.FormMethod(options.Method)
	submit := options.SubmitLabel
	if submit == "" {
		submit = DefaultSubmitLabel
	}

	data := map[string]any{
		"form":        form,
		"fields":      fields,
		"action":      options.Action,
		"method":      method,
		"override":    override,
		"hidden":      hiddenInputs(options.Hidden),
		"errors":      render.MergeMessages(options.FormErrors),
		"submitLabel": submit,
	}
	if cfg := options.Theme; cfg != nil {
		data["theme"] = cfg.Theme
		data["variant"] = cfg.Variant
		data["cssVars"] = cfg.CSSVars
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func hiddenInputs(values map[string]string) []render.HiddenField {
	return render.SortedHiddenFields(values)
}
