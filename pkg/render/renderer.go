package render

import (
	"context"
)

// Named is implemented by anything a Registry can store.
type Named interface {
	Name() string
}

// FormRenderer converts a form snapshot into bytes (HTML, terminal text, ...).
type FormRenderer interface {
	Named
	ContentType() string
	Render(ctx context.Context, form FormView, options RenderOptions) ([]byte, error)
}

// TableRenderer converts a table snapshot into bytes.
type TableRenderer interface {
	Named
	ContentType() string
	RenderTable(ctx context.Context, table TableView, options RenderOptions) ([]byte, error)
}
