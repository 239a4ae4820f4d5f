package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/render/template"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
	}
}

func (r *componentRenderer) renderAll(fields []render.FieldView) (string, error) {
	var out strings.Builder
	for _, field := range fields {
		markup, err := r.render(field)
		if err != nil {
			return "", err
		}
		out.WriteString(markup)
	}
	return out.String(), nil
}

func (r *componentRenderer) render(field render.FieldView) (string, error) {
	componentName := field.Component
	if componentName == "" {
		componentName = components.NameInput
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	data := components.ComponentData{
		Template:      r.templates,
		RenderChild:   r.render,
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}
	if descriptor.Chrome {
		return control.String(), nil
	}
	return buildFieldMarkup(field, componentName, control.String()), nil
}

// buildFieldMarkup wraps a control with its label and error message. The
// message is always emitted for invalid fields but stays hidden until a
// submit has been attempted.
func buildFieldMarkup(field render.FieldView, componentName, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="af-field" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString("\">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(components.ControlID(field.Name)))
		builder.WriteString(`" class="af-label">`)
		builder.WriteString(html.EscapeString(label))
		if field.Required {
			builder.WriteString(`<span class="af-required">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	// Controls are copied verbatim: textarea values must keep their blank lines.
	if control = strings.TrimSpace(control); control != "" {
		builder.WriteString(control)
		builder.WriteByte('\n')
	}

	if field.Invalid && field.Message != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(components.ErrorID(field.Name)))
		builder.WriteString(`" class="af-error" role="alert"`)
		if !field.ShowError {
			builder.WriteString(` hidden`)
		}
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(field.Message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
