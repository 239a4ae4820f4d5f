package template

import (
	"io"
)

// TemplateRenderer is the seam HTML renderers and the admin pages render
// through. Output is returned and also copied to any writers passed in.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Resetter is implemented by engines that cache compiled templates and can
// drop that cache, e.g. when template files change on disk.
type Resetter interface {
	Reset()
}
