package components

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/render"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameAsyncSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.async-select", templatePrefix+"async_select.tmpl"),
	})
	registry.MustRegister(NameAsyncMultiSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.async-multi-select", templatePrefix+"async_multi_select.tmpl"),
	})
	registry.MustRegister(NameContainer, Descriptor{
		Renderer: containerRenderer,
		Chrome:   true,
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, templatePayload(field))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// templatePayload precomputes ids and numeric attributes as strings so
// templates never format numbers themselves. Length attributes are left off
// required fields.
func templatePayload(field render.FieldView) map[string]any {
	payload := map[string]any{
		"field":       field,
		"id":          ControlID(field.Name),
		"errorId":     ErrorID(field.Name),
		"minlength":   "",
		"maxlength":   "",
		"chooseName":  field.Name + form.ChooseSuffix,
		"releaseName": field.Name + form.ReleaseSuffix,
	}
	// a required field is only ever checked for presence
	if field.Required {
		return payload
	}
	if field.MinLength > 0 {
		payload["minlength"] = strconv.Itoa(field.MinLength)
	}
	if field.MaxLength > 0 && !field.Multiple {
		payload["maxlength"] = strconv.Itoa(field.MaxLength)
	}
	return payload
}

func containerRenderer(buf *bytes.Buffer, field render.FieldView, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<div class="af-flex"`)
	if name := strings.TrimSpace(field.Name); name != "" {
		builder.WriteString(` data-container="`)
		builder.WriteString(html.EscapeString(name))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")

	if data.RenderChild != nil {
		for _, child := range field.Children {
			markup, err := data.RenderChild(child)
			if err != nil {
				return err
			}
			builder.WriteString(markup)
		}
	}

	builder.WriteString("</div>\n")
	buf.WriteString(builder.String())
	return nil
}

// ControlID is the DOM id of a field's control.
func ControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "af-" + trimmed
}

// ErrorID is the DOM id of a field's error message.
func ErrorID(name string) string {
	id := ControlID(name)
	if id == "" {
		return ""
	}
	return id + "-error"
}
